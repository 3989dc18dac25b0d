package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"

	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("refresh session not found")

// TokenRepository is the ledger behind issued refresh tokens: one row per
// token, keyed by the session id embedded in the token's jti claim. It is the
// sole source of revocation truth.
type TokenRepository interface {
	Record(s *domain.RefreshSession) error
	FindBySessionID(sessionID string) (*domain.RefreshSession, error)
	// Invalidate flips the revoked flag only if it is still clear and reports
	// whether this call was the one that flipped it. Two concurrent refreshes
	// with the same token therefore race on a single-row conditional update
	// and exactly one wins.
	Invalidate(sessionID string) (bool, error)
	RevokeAllForAccount(accountID uint) (int64, error)
	CountActiveForAccount(accountID uint) (int64, error)
	PurgeRevokedBefore(cutoff time.Time) (int64, error)
}

type GormTokenRepository struct{ db *gorm.DB }

func NewTokenRepository(db *gorm.DB) TokenRepository { return &GormTokenRepository{db: db} }

func (r *GormTokenRepository) Record(s *domain.RefreshSession) error {
	err := r.db.Create(s).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "refresh_session", "record", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "refresh_session", "record", "success")
	return nil
}

func (r *GormTokenRepository) FindBySessionID(sessionID string) (*domain.RefreshSession, error) {
	var s domain.RefreshSession
	err := r.db.Where("session_id = ?", sessionID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "refresh_session", "find_by_session_id", "not_found")
			return nil, ErrSessionNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "refresh_session", "find_by_session_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "refresh_session", "find_by_session_id", "success")
	return &s, nil
}

func (r *GormTokenRepository) Invalidate(sessionID string) (bool, error) {
	res := r.db.Model(&domain.RefreshSession{}).
		Where("session_id = ? AND revoked = ?", sessionID, false).
		Update("revoked", true)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "refresh_session", "invalidate", "error")
		return false, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "refresh_session", "invalidate", "success")
	return res.RowsAffected > 0, nil
}

func (r *GormTokenRepository) RevokeAllForAccount(accountID uint) (int64, error) {
	res := r.db.Model(&domain.RefreshSession{}).
		Where("account_id = ? AND revoked = ?", accountID, false).
		Update("revoked", true)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "refresh_session", "revoke_all_for_account", "error")
		return res.RowsAffected, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "refresh_session", "revoke_all_for_account", "success")
	return res.RowsAffected, nil
}

func (r *GormTokenRepository) CountActiveForAccount(accountID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.RefreshSession{}).
		Where("account_id = ? AND revoked = ?", accountID, false).
		Count(&n).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "refresh_session", "count_active_for_account", "error")
		return 0, err
	}
	observability.RecordRepositoryOperation(context.Background(), "refresh_session", "count_active_for_account", "success")
	return n, nil
}

// PurgeRevokedBefore hard-deletes revoked ledger rows older than the cutoff.
// Unrevoked rows are kept until revoked or rotated regardless of age; their
// tokens expire by signature anyway.
func (r *GormTokenRepository) PurgeRevokedBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("revoked = ? AND created_at <= ?", true, cutoff).Delete(&domain.RefreshSession{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "refresh_session", "purge_revoked_before", "error")
		return res.RowsAffected, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "refresh_session", "purge_revoked_before", "success")
	return res.RowsAffected, nil
}
