package common

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/kortix-ai/gateway/common/config"
	"github.com/kortix-ai/gateway/common/logger"
)

// HashAPIKey returns the hex HMAC-SHA256 of the presented secret, keyed by
// API_KEY_SECRET. Credentials are stored and looked up by this hash only;
// the raw secret never touches the database.
func HashAPIKey(secret string) string {
	if config.APIKeySecret == "" {
		logger.Logger.Fatal("API_KEY_SECRET must be set before hashing credentials")
	}
	mac := hmac.New(sha256.New, []byte(config.APIKeySecret))
	mac.Write([]byte(secret))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyAPIKey reports whether the presented secret hashes to storedHex.
// The comparison is constant-time; any decode or length mismatch is false.
// An unset process secret never verifies: stored hashes were keyed by a real
// secret, and HMAC("") must not be accepted in its place.
func VerifyAPIKey(secret, storedHex string) bool {
	if config.APIKeySecret == "" {
		logger.Logger.Error("API_KEY_SECRET is not set; refusing to verify credentials")
		return false
	}
	stored, err := hex.DecodeString(storedHex)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(config.APIKeySecret))
	mac.Write([]byte(secret))
	computed := mac.Sum(nil)
	if len(stored) != len(computed) {
		return false
	}
	return subtle.ConstantTimeCompare(computed, stored) == 1
}
