package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTokenRepoForTest(t *testing.T) TokenRepository {
	t.Helper()
	return NewTokenRepository(newTestDB(t, &domain.RefreshSession{}))
}

func TestTokenRepositoryRecordAndFind(t *testing.T) {
	repo := newTokenRepoForTest(t)

	s := &domain.RefreshSession{SessionID: "sid-1", TokenHash: "hash-1", AccountID: 1}
	if err := repo.Record(s); err != nil {
		t.Fatalf("record: %v", err)
	}

	found, err := repo.FindBySessionID("sid-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.TokenHash != "hash-1" || found.AccountID != 1 || found.Revoked {
		t.Fatalf("unexpected session: %+v", found)
	}

	if _, err := repo.FindBySessionID("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestTokenRepositoryInvalidateIsOneShot(t *testing.T) {
	repo := newTokenRepoForTest(t)

	if err := repo.Record(&domain.RefreshSession{SessionID: "sid-2", TokenHash: "h", AccountID: 1}); err != nil {
		t.Fatalf("record: %v", err)
	}

	changed, err := repo.Invalidate("sid-2")
	if err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if !changed {
		t.Fatal("expected first invalidate to win")
	}

	changed, err = repo.Invalidate("sid-2")
	if err != nil {
		t.Fatalf("second invalidate: %v", err)
	}
	if changed {
		t.Fatal("expected second invalidate to lose on already-revoked row")
	}

	found, err := repo.FindBySessionID("sid-2")
	if err != nil {
		t.Fatalf("find after invalidate: %v", err)
	}
	if !found.Revoked {
		t.Fatal("expected record retained with revoked flag set")
	}
}

func TestTokenRepositoryRevokeAllForAccount(t *testing.T) {
	repo := newTokenRepoForTest(t)

	for i := 0; i < 3; i++ {
		s := &domain.RefreshSession{SessionID: fmt.Sprintf("acct1-%d", i), TokenHash: fmt.Sprintf("h%d", i), AccountID: 1}
		if err := repo.Record(s); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := repo.Record(&domain.RefreshSession{SessionID: "acct2-0", TokenHash: "other", AccountID: 2}); err != nil {
		t.Fatalf("record other account: %v", err)
	}

	n, err := repo.RevokeAllForAccount(1)
	if err != nil {
		t.Fatalf("revoke all: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 revoked, got %d", n)
	}

	active, err := repo.CountActiveForAccount(1)
	if err != nil {
		t.Fatalf("count active: %v", err)
	}
	if active != 0 {
		t.Fatalf("expected 0 active sessions for account 1, got %d", active)
	}

	other, err := repo.FindBySessionID("acct2-0")
	if err != nil {
		t.Fatalf("find other: %v", err)
	}
	if other.Revoked {
		t.Fatal("expected other account's session untouched")
	}
}

func TestTokenRepositoryPurgeRevokedBefore(t *testing.T) {
	db := newTestDB(t, &domain.RefreshSession{})
	repo := NewTokenRepository(db)

	old := &domain.RefreshSession{SessionID: "old", TokenHash: "h1", AccountID: 1, Revoked: true}
	if err := repo.Record(old); err != nil {
		t.Fatalf("record: %v", err)
	}
	db.Model(old).Update("created_at", time.Now().Add(-48*time.Hour))

	fresh := &domain.RefreshSession{SessionID: "fresh", TokenHash: "h2", AccountID: 1, Revoked: true}
	if err := repo.Record(fresh); err != nil {
		t.Fatalf("record fresh: %v", err)
	}
	activeOld := &domain.RefreshSession{SessionID: "active-old", TokenHash: "h3", AccountID: 1}
	if err := repo.Record(activeOld); err != nil {
		t.Fatalf("record active: %v", err)
	}
	db.Model(activeOld).Update("created_at", time.Now().Add(-48*time.Hour))

	n, err := repo.PurgeRevokedBefore(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged row, got %d", n)
	}
	if _, err := repo.FindBySessionID("old"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("expected old revoked row purged")
	}
	if _, err := repo.FindBySessionID("fresh"); err != nil {
		t.Fatalf("expected fresh revoked row kept: %v", err)
	}
	if _, err := repo.FindBySessionID("active-old"); err != nil {
		t.Fatalf("expected unrevoked row kept regardless of age: %v", err)
	}
}
