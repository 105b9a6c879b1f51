package middleware

import (
	"fmt"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "store-rating/internal/transport/http/response"
)

// Recovery turns a handler panic into the 500 envelope. It must sit after
// AccessLog and Metrics so those still see the request finish.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, rec any) {
		_ = c.Error(fmt.Errorf("panic: %v", rec))
		resp.Abort(c, resp.CodeServerError, "internal error")
	})
}
