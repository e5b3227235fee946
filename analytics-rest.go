package motorhall

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/motorhall/motorhall/analytics"
	"github.com/sirupsen/logrus"
)

type AnalyticsREST struct {
	repository *analytics.Repository
}

func NewAnalyticsREST(repository *analytics.Repository) *AnalyticsREST {
	return &AnalyticsREST{repository: repository}
}

// handleAdd is fire-and-forget: the caller always gets a 200, failures are
// only logged. A broken analytics pipeline must never degrade page loads.
func (s *AnalyticsREST) handleAdd(ctx *gin.Context) {
	var event analytics.InputEvent

	err := ctx.ShouldBindJSON(&event)
	if err == nil {
		err = s.repository.Add(ctx, event)
	}

	if err != nil {
		logrus.Errorf("analytics event: %v", err)
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *AnalyticsREST) SetupRouter(router *gin.Engine) {
	router.POST("/api/analytics", s.handleAdd)
}
