package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"

	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(d *domain.Document) error
	// FindByID returns the full row including the base64 payload.
	FindByID(id uint) (*domain.Document, error)
	// ListPaged omits the payload column; listings stay cheap even with large
	// blobs in the table.
	ListPaged(req PageRequest) (PageResult[domain.Document], error)
	Update(d *domain.Document) error
	SoftDelete(id uint) error
	ListDeleted() ([]domain.Document, error)
	Restore(id uint) error
	PurgeDeletedBefore(cutoff time.Time) (int64, error)
}

type GormDocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) DocumentRepository { return &GormDocumentRepository{db: db} }

func (r *GormDocumentRepository) Create(d *domain.Document) error {
	err := r.db.Create(d).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "document", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "document", "create", "success")
	return nil
}

func (r *GormDocumentRepository) FindByID(id uint) (*domain.Document, error) {
	var d domain.Document
	err := r.db.First(&d, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "document", "find_by_id", "not_found")
			return nil, ErrNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "document", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "document", "find_by_id", "success")
	return &d, nil
}

func (r *GormDocumentRepository) ListPaged(req PageRequest) (PageResult[domain.Document], error) {
	req = normalizePageRequest(req)
	result := PageResult[domain.Document]{Page: req.Page, PageSize: req.PageSize}

	if err := r.db.Model(&domain.Document{}).Count(&result.Total).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "document", "list_paged", "error")
		return PageResult[domain.Document]{}, err
	}
	offset := (req.Page - 1) * req.PageSize
	err := r.db.
		Select("id", "name", "mime_type", "size_bytes", "owner_id", "created_at", "updated_at").
		Order("id DESC").Offset(offset).Limit(req.PageSize).
		Find(&result.Items).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "document", "list_paged", "error")
		return PageResult[domain.Document]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	observability.RecordRepositoryOperation(context.Background(), "document", "list_paged", "success")
	return result, nil
}

func (r *GormDocumentRepository) Update(d *domain.Document) error {
	err := r.db.Save(d).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "document", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "document", "update", "success")
	return nil
}

func (r *GormDocumentRepository) SoftDelete(id uint) error {
	return softDeleteByID[domain.Document](r.db, "document", id)
}

func (r *GormDocumentRepository) ListDeleted() ([]domain.Document, error) {
	return listDeleted[domain.Document](r.db, "document")
}

func (r *GormDocumentRepository) Restore(id uint) error {
	return restoreByID[domain.Document](r.db, "document", id)
}

func (r *GormDocumentRepository) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	return purgeDeletedBefore[domain.Document](r.db, "document", cutoff)
}
