package domain

import "time"

// RefreshSession is one ledger row per issued refresh token, keyed by the
// session id embedded in the token's jti claim. Only the peppered hash of the
// raw token is stored; the token itself is never persisted. Revoked rows stay
// in place until the retention purge so replays keep failing loudly.
type RefreshSession struct {
	SessionID string    `gorm:"primaryKey;size:64" json:"session_id"`
	TokenHash string    `gorm:"size:64;not null" json:"-"`
	AccountID uint      `gorm:"index;not null" json:"account_id"`
	Revoked   bool      `gorm:"not null;default:false" json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
