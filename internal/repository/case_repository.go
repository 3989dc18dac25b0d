package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"

	"gorm.io/gorm"
)

type CaseRepository interface {
	Create(c *domain.Case) error
	FindByID(id uint) (*domain.Case, error)
	ListPaged(req PageRequest) (PageResult[domain.Case], error)
	Update(c *domain.Case) error
	SoftDelete(id uint) error
	ListDeleted() ([]domain.Case, error)
	Restore(id uint) error
	PurgeDeletedBefore(cutoff time.Time) (int64, error)
}

type GormCaseRepository struct{ db *gorm.DB }

func NewCaseRepository(db *gorm.DB) CaseRepository { return &GormCaseRepository{db: db} }

func (r *GormCaseRepository) Create(c *domain.Case) error {
	err := r.db.Create(c).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "case", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "case", "create", "success")
	return nil
}

func (r *GormCaseRepository) FindByID(id uint) (*domain.Case, error) {
	var c domain.Case
	err := r.db.First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "case", "find_by_id", "not_found")
			return nil, ErrNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "case", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "case", "find_by_id", "success")
	return &c, nil
}

func (r *GormCaseRepository) ListPaged(req PageRequest) (PageResult[domain.Case], error) {
	return listPaged[domain.Case](r.db, req, "case")
}

func (r *GormCaseRepository) Update(c *domain.Case) error {
	err := r.db.Save(c).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "case", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "case", "update", "success")
	return nil
}

func (r *GormCaseRepository) SoftDelete(id uint) error {
	return softDeleteByID[domain.Case](r.db, "case", id)
}

func (r *GormCaseRepository) ListDeleted() ([]domain.Case, error) {
	return listDeleted[domain.Case](r.db, "case")
}

func (r *GormCaseRepository) Restore(id uint) error {
	return restoreByID[domain.Case](r.db, "case", id)
}

func (r *GormCaseRepository) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	return purgeDeletedBefore[domain.Case](r.db, "case", cutoff)
}
