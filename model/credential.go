package model

import (
	"context"
	"regexp"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/kortix-ai/gateway/common"
	"github.com/kortix-ai/gateway/common/helper"
	"github.com/kortix-ai/gateway/common/logger"
)

// Credential statuses. Status only progresses active -> revoked or
// active -> expired; the gateway itself never writes status.
const (
	KeyStatusActive  = "active"
	KeyStatusRevoked = "revoked"
	KeyStatusExpired = "expired"
)

// Typed validation failures so the auth layer can report a reason without
// leaking store internals.
var (
	ErrKeyFormat   = errors.New("api key has invalid format")
	ErrKeyNotFound = errors.New("api key not found or inactive")
	ErrKeyExpired  = errors.New("api key has expired")
)

// Credential is one issued API key. The gateway only reads and validates
// rows, and bumps last_used_at; issuance and revocation live elsewhere.
type Credential struct {
	KeyID         string     `json:"key_id" gorm:"column:key_id;primaryKey"`
	PublicPrefix  string     `json:"public_prefix" gorm:"column:public_prefix"`
	SecretKeyHash string     `json:"-" gorm:"column:secret_key_hash;uniqueIndex;size:64"`
	AccountID     string     `json:"account_id" gorm:"column:account_id;index"`
	Status        string     `json:"status" gorm:"column:status;default:active"`
	ExpiresAt     *time.Time `json:"expires_at" gorm:"column:expires_at"`
	LastUsedAt    *time.Time `json:"last_used_at" gorm:"column:last_used_at"`
}

// TableName keeps the table name aligned with the provisioning service.
func (Credential) TableName() string {
	return "api_keys"
}

var keyShapeRe = regexp.MustCompile(`^kx_[0-9A-Za-z]{40}$`)

// lastUsedThrottle suppresses last_used_at writes to at most one per key per
// window. Entries expire on their own; the janitor keeps the map bounded, so
// losing it on restart costs nothing but one extra write per key.
var lastUsedThrottle = gocache.New(lastUsedWindow, 2*lastUsedWindow)

const lastUsedWindow = 15 * time.Minute

// TryRecordUse reports whether the caller should persist a last-used-at
// update for keyID. At most one call per key returns true per window.
func TryRecordUse(keyID string) bool {
	if err := lastUsedThrottle.Add(keyID, struct{}{}, gocache.DefaultExpiration); err != nil {
		return false
	}
	return true
}

// ValidateAPIKey resolves a presented secret to its credential. It checks the
// public shape, hashes the secret, requires an active row, and enforces
// expiry. On success it schedules a throttled last-used-at update and
// returns the credential.
func ValidateAPIKey(ctx context.Context, presented string) (*Credential, error) {
	if !keyShapeRe.MatchString(presented) {
		return nil, ErrKeyFormat
	}
	if DB == nil {
		return nil, errors.New("credential store not configured")
	}

	hash := common.HashAPIKey(presented)
	var cred Credential
	err := DB.WithContext(ctx).
		Where("secret_key_hash = ? AND status = ?", hash, KeyStatusActive).
		First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, errors.Wrap(err, "query credential")
	}

	if cred.ExpiresAt != nil && cred.ExpiresAt.Before(time.Now()) {
		return nil, ErrKeyExpired
	}

	if TryRecordUse(cred.KeyID) {
		go touchLastUsed(cred.KeyID)
	}

	return &cred, nil
}

// touchLastUsed bumps last_used_at. Runs detached from the request; failures
// only cost freshness of an advisory column.
func touchLastUsed(keyID string) {
	now := time.Now()
	err := DB.Model(&Credential{}).
		Where("key_id = ? AND (last_used_at IS NULL OR last_used_at < ?)", keyID, now).
		Update("last_used_at", now).Error
	if err != nil {
		logger.Logger.Warn("update last_used_at failed",
			zap.String("key_id", keyID),
			zap.Error(err))
	}
}

// MaskedKey returns a log-safe rendition of a presented key.
func MaskedKey(presented string) string {
	return helper.MaskAPIKey(presented)
}
