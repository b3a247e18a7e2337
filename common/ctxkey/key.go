// Package ctxkey defines the gin context keys shared across middlewares and
// handlers.
package ctxkey

const (
	KeyRequestBody = "key_request_body"

	AccountID = "account_id"
	KeyID     = "key_id"
	IsTest    = "is_test"

	RequestModel = "request_model"
	RequestId    = "request_id"
	SessionID    = "session_id"
)
