package middleware

import (
	"net/http"
	"strings"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/kortix-ai/gateway/common/config"
	"github.com/kortix-ai/gateway/common/ctxkey"
	"github.com/kortix-ai/gateway/common/helper"
	"github.com/kortix-ai/gateway/model"
)

// Auth authenticates every protected request from its bearer token.
//
// Resolution order: the fixed test token maps to the test account; tokens
// with the documented public prefix resolve through the credential store;
// anything else falls back to "token is the account id", but only in
// bootstrap deployments without a credential store. With a store configured
// the fallback is disabled and unknown tokens are rejected.
func Auth() func(c *gin.Context) {
	return func(c *gin.Context) {
		lg := gmw.GetLogger(c)

		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			AbortWithError(c, http.StatusUnauthorized, errors.New("missing Authorization header"))
			return
		}
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			AbortWithError(c, http.StatusUnauthorized, errors.New("malformed Authorization header"))
			return
		}

		if token == config.TestToken {
			c.Set(ctxkey.AccountID, config.TestAccountID)
			c.Set(ctxkey.IsTest, true)
			c.Next()
			return
		}

		if strings.HasPrefix(token, config.APIKeyPrefix) && model.StoreEnabled() {
			cred, err := model.ValidateAPIKey(gmw.Ctx(c), token)
			if err != nil {
				lg.Warn("api key rejected",
					zap.String("api_key", helper.MaskAPIKey(token)),
					zap.Error(err))
				AbortWithError(c, http.StatusUnauthorized, err)
				return
			}
			c.Set(ctxkey.AccountID, cred.AccountID)
			c.Set(ctxkey.KeyID, cred.KeyID)
			c.Set(ctxkey.IsTest, false)
			c.Next()
			return
		}

		if model.StoreEnabled() {
			AbortWithError(c, http.StatusUnauthorized, errors.New("invalid api key"))
			return
		}

		// Bootstrap deployments have no credential store; the token itself
		// names the account.
		c.Set(ctxkey.AccountID, token)
		c.Set(ctxkey.IsTest, false)
		c.Next()
	}
}
