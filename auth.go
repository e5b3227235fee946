package motorhall

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/motorhall/motorhall/config"
)

// Auth guards the back-office with the shared admin password. Requests carry
// the password as a bearer token; the comparison is a plain string compare
// against the configured secret.
type Auth struct {
	config config.AdminConfig
}

func NewAuth(cfg config.AdminConfig) *Auth {
	return &Auth{config: cfg}
}

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Auth) handleLogin(ctx *gin.Context) {
	if s.config.Password == "" {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "service is not configured"})

		return
	}

	var request loginRequest

	err := ctx.BindJSON(&request)
	if err != nil {
		return
	}

	if request.Password != s.config.Password {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "wrong password"})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "token": s.config.Password})
}

func (s *Auth) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if s.config.Password == "" {
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "service is not configured"})

			return
		}

		token := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		if token != s.config.Password {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})

			return
		}

		ctx.Next()
	}
}

func (s *Auth) SetupRouter(router *gin.Engine) {
	router.POST("/api/login", s.handleLogin)
}
