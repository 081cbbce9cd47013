package middleware

import (
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
)

type RecoveryConfig struct {
	Stack bool
}

func GinRecovery() gin.HandlerFunc {
	return GinRecoveryWithConfig(RecoveryConfig{
		Stack: true,
	})
}

func GinRecoveryWithConfig(config RecoveryConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				httpRequest, _ := httputil.DumpRequest(c.Request, false)
				// A broken connection does not warrant a stack trace.
				if isBrokenPipe(err) {
					mlog.Error().
						Str("request", string(httpRequest)).
						Any("errors", err).
						Send()
					// The connection is dead, a status can not be written.
					_ = c.Error(err.(error))
					c.Abort()
					return
				}

				event := mlog.Error().
					Str("request", string(httpRequest)).
					Any("errors", err)
				if config.Stack {
					event = event.Str("stack", string(debug.Stack()))
				}
				event.Send()

				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

func isBrokenPipe(err any) bool {
	if ne, ok := err.(*net.OpError); ok {
		if se, ok := ne.Err.(*os.SyscallError); ok {
			errStr := strings.ToLower(se.Error())
			return strings.Contains(errStr, "broken pipe") || strings.Contains(errStr, "connection reset by peer")
		}
	}
	return false
}
