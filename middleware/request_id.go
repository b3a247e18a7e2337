package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kortix-ai/gateway/common/ctxkey"
	"github.com/kortix-ai/gateway/common/helper"
)

// RequestId tags every request with a time-ordered id. A caller-supplied
// X-Request-Id is honored; otherwise one is generated. The id is echoed in
// the response header and appended to error envelopes.
func RequestId() func(c *gin.Context) {
	return func(c *gin.Context) {
		id := c.Request.Header.Get(helper.RequestIdKey)
		if id == "" {
			id = helper.GenRequestID()
		}
		c.Set(helper.RequestIdKey, id)
		c.Set(ctxkey.RequestId, id)
		c.Header(helper.RequestIdKey, id)
		c.Next()
	}
}
