package middleware

import (
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/kortix-ai/gateway/common/helper"
)

// AbortWithError aborts the request with the standard error envelope
// {error:true, message, status}. 4xx statuses log as WARN (client-caused);
// 5xx as ERROR.
func AbortWithError(c *gin.Context, statusCode int, err error) {
	logger := gmw.GetLogger(c)
	if statusCode >= 400 && statusCode < 500 {
		logger.Warn("request aborted",
			zap.Int("status_code", statusCode),
			zap.Error(err))
	} else {
		logger.Error("request aborted",
			zap.Int("status_code", statusCode),
			zap.Error(err))
	}

	c.JSON(statusCode, gin.H{
		"error":   true,
		"message": helper.MessageWithRequestId(err.Error(), c.GetString(helper.RequestIdKey)),
		"status":  statusCode,
	})
	c.Abort()
}
