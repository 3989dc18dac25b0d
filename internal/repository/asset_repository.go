package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"

	"gorm.io/gorm"
)

var ErrAssetAllocated = errors.New("asset already allocated")

type AssetRepository interface {
	Create(a *domain.Asset) error
	FindByID(id uint) (*domain.Asset, error)
	ListPaged(req PageRequest) (PageResult[domain.Asset], error)
	Update(a *domain.Asset) error
	// Allocate opens an allocation for the asset. Fails with ErrAssetAllocated
	// while a previous allocation is still open.
	Allocate(assetID, accountID uint) (*domain.AssetAllocation, error)
	// Return closes the open allocation, if any, and reports whether one was
	// open.
	Return(assetID uint) (bool, error)
	AllocationHistory(assetID uint) ([]domain.AssetAllocation, error)
	SoftDelete(id uint) error
	ListDeleted() ([]domain.Asset, error)
	Restore(id uint) error
	PurgeDeletedBefore(cutoff time.Time) (int64, error)
}

type GormAssetRepository struct{ db *gorm.DB }

func NewAssetRepository(db *gorm.DB) AssetRepository { return &GormAssetRepository{db: db} }

func (r *GormAssetRepository) Create(a *domain.Asset) error {
	err := r.db.Create(a).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "asset", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "asset", "create", "success")
	return nil
}

func (r *GormAssetRepository) FindByID(id uint) (*domain.Asset, error) {
	var a domain.Asset
	err := r.db.First(&a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "asset", "find_by_id", "not_found")
			return nil, ErrNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "asset", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "asset", "find_by_id", "success")
	return &a, nil
}

func (r *GormAssetRepository) ListPaged(req PageRequest) (PageResult[domain.Asset], error) {
	return listPaged[domain.Asset](r.db, req, "asset")
}

func (r *GormAssetRepository) Update(a *domain.Asset) error {
	err := r.db.Save(a).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "asset", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "asset", "update", "success")
	return nil
}

func (r *GormAssetRepository) Allocate(assetID, accountID uint) (*domain.AssetAllocation, error) {
	var alloc *domain.AssetAllocation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&domain.AssetAllocation{}).
			Where("asset_id = ? AND returned_at IS NULL", assetID).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrAssetAllocated
		}
		alloc = &domain.AssetAllocation{
			AssetID:     assetID,
			AccountID:   accountID,
			AllocatedAt: time.Now().UTC(),
		}
		return tx.Create(alloc).Error
	})
	if err != nil {
		if errors.Is(err, ErrAssetAllocated) {
			observability.RecordRepositoryOperation(context.Background(), "asset", "allocate", "conflict")
		} else {
			observability.RecordRepositoryOperation(context.Background(), "asset", "allocate", "error")
		}
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "asset", "allocate", "success")
	return alloc, nil
}

func (r *GormAssetRepository) Return(assetID uint) (bool, error) {
	now := time.Now().UTC()
	res := r.db.Model(&domain.AssetAllocation{}).
		Where("asset_id = ? AND returned_at IS NULL", assetID).
		Update("returned_at", now)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "asset", "return", "error")
		return false, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "asset", "return", "success")
	return res.RowsAffected > 0, nil
}

func (r *GormAssetRepository) AllocationHistory(assetID uint) ([]domain.AssetAllocation, error) {
	var allocs []domain.AssetAllocation
	err := r.db.Where("asset_id = ?", assetID).Order("allocated_at DESC").Find(&allocs).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "asset", "allocation_history", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "asset", "allocation_history", "success")
	return allocs, nil
}

func (r *GormAssetRepository) SoftDelete(id uint) error {
	return softDeleteByID[domain.Asset](r.db, "asset", id)
}

func (r *GormAssetRepository) ListDeleted() ([]domain.Asset, error) {
	return listDeleted[domain.Asset](r.db, "asset")
}

func (r *GormAssetRepository) Restore(id uint) error {
	return restoreByID[domain.Asset](r.db, "asset", id)
}

func (r *GormAssetRepository) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	return purgeDeletedBefore[domain.Asset](r.db, "asset", cutoff)
}
