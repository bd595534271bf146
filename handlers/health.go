package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hey-kuldeep/expense-xtrac/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Pinger is implemented by *mongodb.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HandleHealth(p Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			logger.Get().Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
