package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"

	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(a *domain.Announcement) error
	FindByID(id uint) (*domain.Announcement, error)
	ListPaged(req PageRequest) (PageResult[domain.Announcement], error)
	Update(a *domain.Announcement) error
	SoftDelete(id uint) error
	ListDeleted() ([]domain.Announcement, error)
	Restore(id uint) error
	PurgeDeletedBefore(cutoff time.Time) (int64, error)
}

type GormAnnouncementRepository struct{ db *gorm.DB }

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &GormAnnouncementRepository{db: db}
}

func (r *GormAnnouncementRepository) Create(a *domain.Announcement) error {
	err := r.db.Create(a).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "announcement", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "announcement", "create", "success")
	return nil
}

func (r *GormAnnouncementRepository) FindByID(id uint) (*domain.Announcement, error) {
	var a domain.Announcement
	err := r.db.First(&a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "announcement", "find_by_id", "not_found")
			return nil, ErrNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "announcement", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "announcement", "find_by_id", "success")
	return &a, nil
}

func (r *GormAnnouncementRepository) ListPaged(req PageRequest) (PageResult[domain.Announcement], error) {
	return listPaged[domain.Announcement](r.db, req, "announcement")
}

func (r *GormAnnouncementRepository) Update(a *domain.Announcement) error {
	err := r.db.Save(a).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "announcement", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "announcement", "update", "success")
	return nil
}

func (r *GormAnnouncementRepository) SoftDelete(id uint) error {
	return softDeleteByID[domain.Announcement](r.db, "announcement", id)
}

func (r *GormAnnouncementRepository) ListDeleted() ([]domain.Announcement, error) {
	return listDeleted[domain.Announcement](r.db, "announcement")
}

func (r *GormAnnouncementRepository) Restore(id uint) error {
	return restoreByID[domain.Announcement](r.db, "announcement", id)
}

func (r *GormAnnouncementRepository) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	return purgeDeletedBefore[domain.Announcement](r.db, "announcement", cutoff)
}
