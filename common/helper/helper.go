// Package helper provides small shared utilities.
package helper

import (
	"fmt"
	"time"

	gutils "github.com/Laisky/go-utils/v6"
)

const (
	// RequestIdKey stores the gin context key used to persist the current request identifier.
	RequestIdKey = "X-Request-Id"
)

// GetTimestamp returns the current unix timestamp in seconds.
func GetTimestamp() int64 {
	return time.Now().Unix()
}

// GenRequestID returns a time-ordered unique id for requests and transactions.
func GenRequestID() string {
	return gutils.UUID7()
}

// MaskAPIKey returns a masked version of an API key for safe logging.
// It shows the first 6 characters and last 4 characters, with "..." in between.
// For short keys (less than 12 chars), it returns "***" to avoid exposing too much.
func MaskAPIKey(key string) string {
	if len(key) < 12 {
		return "***"
	}
	return key[:6] + "..." + key[len(key)-4:]
}

// MessageWithRequestId appends the request id to a user-facing message so
// support can correlate reports with logs.
func MessageWithRequestId(message, id string) string {
	if id == "" {
		return message
	}
	return fmt.Sprintf("%s (request id: %s)", message, id)
}
