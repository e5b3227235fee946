package motorhall

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/motorhall/motorhall/config"
	"github.com/sirupsen/logrus"
)

var cnt *Container

func TestMain(m *testing.M) {
	cfg := config.LoadConfig(".")

	cnt = NewContainer(cfg)

	logrus.SetLevel(logrus.DebugLevel)
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}
