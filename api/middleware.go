package api

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs every plain http request. Websocket sessions log their
// own lifecycle.
func (s *Server) RequestLogger(c *gin.Context) {
	start := time.Now()

	c.Next()

	s.log.Debug().
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Int("status", c.Writer.Status()).
		Dur("latency", time.Since(start)).
		Msg("request")
}
