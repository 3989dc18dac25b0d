package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Shared soft-delete plumbing. Every trashable model carries gorm.DeletedAt,
// so trash listing, restore and the retention purge are the same query for
// each entity and differ only in the table.

func softDeleteByID[T any](db *gorm.DB, entity string, id uint) error {
	res := db.Delete(new(T), id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), entity, "soft_delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), entity, "soft_delete", "not_found")
		return ErrNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), entity, "soft_delete", "success")
	return nil
}

func listDeleted[T any](db *gorm.DB, entity string) ([]T, error) {
	var items []T
	err := db.Unscoped().Where("deleted_at IS NOT NULL").Order("deleted_at DESC").Find(&items).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), entity, "list_deleted", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), entity, "list_deleted", "success")
	return items, nil
}

func restoreByID[T any](db *gorm.DB, entity string, id uint) error {
	res := db.Unscoped().Model(new(T)).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), entity, "restore", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), entity, "restore", "not_found")
		return ErrNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), entity, "restore", "success")
	return nil
}

func purgeDeletedBefore[T any](db *gorm.DB, entity string, cutoff time.Time) (int64, error) {
	res := db.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at <= ?", cutoff).
		Delete(new(T))
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), entity, "purge_deleted_before", "error")
		return res.RowsAffected, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), entity, "purge_deleted_before", "success")
	return res.RowsAffected, nil
}
