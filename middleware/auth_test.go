package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kortix-ai/gateway/common"
	"github.com/kortix-ai/gateway/common/config"
	"github.com/kortix-ai/gateway/common/ctxkey"
	"github.com/kortix-ai/gateway/common/logger"
	"github.com/kortix-ai/gateway/model"
)

const testSecretKey = "kx_0123456789abcdefghijklmnopqrstuvwxyzABCD"

func runAuth(t *testing.T, authHeader string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/chat/completions", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	gmw.SetLogger(c, logger.Logger)

	Auth()(c)
	return c, w
}

func requireEnvelope(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code)
	var body struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Error)
	require.Equal(t, status, body.Status)
	require.NotEmpty(t, body.Message)
}

func withCredentialStore(t *testing.T) {
	t.Helper()
	config.APIKeySecret = "test-hmac-secret"

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Credential{}))

	prev := model.DB
	model.DB = db
	t.Cleanup(func() {
		require.NoError(t, db.Exec("DELETE FROM api_keys").Error)
		model.DB = prev
	})

	require.NoError(t, db.Create(&model.Credential{
		KeyID:         "key-1",
		PublicPrefix:  testSecretKey[:11],
		SecretKeyHash: common.HashAPIKey(testSecretKey),
		AccountID:     "acct-42",
		Status:        model.KeyStatusActive,
	}).Error)
	model.TryRecordUse("key-1")
}

func TestAuthMissingHeader(t *testing.T) {
	c, w := runAuth(t, "")
	require.True(t, c.IsAborted())
	requireEnvelope(t, w, http.StatusUnauthorized)
}

func TestAuthMalformedHeader(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer ", "bearer abc"} {
		c, w := runAuth(t, header)
		require.True(t, c.IsAborted(), "header %q", header)
		requireEnvelope(t, w, http.StatusUnauthorized)
	}
}

func TestAuthTestToken(t *testing.T) {
	c, _ := runAuth(t, "Bearer "+config.TestToken)
	require.False(t, c.IsAborted())
	require.Equal(t, config.TestAccountID, c.GetString(ctxkey.AccountID))
	require.True(t, c.GetBool(ctxkey.IsTest))
}

func TestAuthLegacyFallbackWithoutStore(t *testing.T) {
	prev := model.DB
	model.DB = nil
	t.Cleanup(func() { model.DB = prev })

	c, _ := runAuth(t, "Bearer some-account-id")
	require.False(t, c.IsAborted(), "without a store the token names the account")
	require.Equal(t, "some-account-id", c.GetString(ctxkey.AccountID))
	require.False(t, c.GetBool(ctxkey.IsTest))
}

func TestAuthValidAPIKey(t *testing.T) {
	withCredentialStore(t)

	c, _ := runAuth(t, "Bearer "+testSecretKey)
	require.False(t, c.IsAborted())
	require.Equal(t, "acct-42", c.GetString(ctxkey.AccountID))
	require.Equal(t, "key-1", c.GetString(ctxkey.KeyID))
	require.False(t, c.GetBool(ctxkey.IsTest))
}

func TestAuthUnknownAPIKey(t *testing.T) {
	withCredentialStore(t)

	c, w := runAuth(t, "Bearer kx_ZZZZZZZZZZabcdefghijklmnopqrstuvwxyzABCD")
	require.True(t, c.IsAborted())
	requireEnvelope(t, w, http.StatusUnauthorized)
}

func TestAuthLegacyFallbackDisabledWithStore(t *testing.T) {
	withCredentialStore(t)

	c, w := runAuth(t, "Bearer some-account-id")
	require.True(t, c.IsAborted(), "with a store configured raw account tokens are rejected")
	requireEnvelope(t, w, http.StatusUnauthorized)
}

func TestRequestId(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	RequestId()(c)
	id := w.Header().Get("X-Request-Id")
	require.NotEmpty(t, id)
	require.Equal(t, id, c.GetString("X-Request-Id"))
	require.Equal(t, id, c.GetString(ctxkey.RequestId))
}

func TestRequestIdHonorsCallerHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	c.Request.Header.Set("X-Request-Id", "caller-id")

	RequestId()(c)
	require.Equal(t, "caller-id", w.Header().Get("X-Request-Id"))
}

func TestAuthTestTokenBypassesStore(t *testing.T) {
	withCredentialStore(t)

	c, _ := runAuth(t, "Bearer "+config.TestToken)
	require.False(t, c.IsAborted())
	require.Equal(t, config.TestAccountID, c.GetString(ctxkey.AccountID))
}
