package controller

import (
	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/kortix-ai/gateway/middleware"
	relaycontroller "github.com/kortix-ai/gateway/relay/controller"
)

// ChatCompletions handles POST /v1/chat/completions. The relay helper
// writes successful responses (including streams) itself; errors come back
// unwritten and are mapped onto the error envelope here.
func ChatCompletions(c *gin.Context) {
	if bizErr := relaycontroller.RelayChatHelper(c); bizErr != nil {
		middleware.AbortWithError(c, bizErr.StatusCode, errors.New(bizErr.Message))
	}
}
