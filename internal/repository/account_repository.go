package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"

	"gorm.io/gorm"
)

var ErrAccountNotFound = errors.New("account not found")

type AccountRepository interface {
	FindByID(id uint) (*domain.Account, error)
	FindByEmail(email string) (*domain.Account, error)
	Create(account *domain.Account) error
	Update(account *domain.Account) error
	ListPaged(req PageRequest) (PageResult[domain.Account], error)
	SoftDelete(id uint) error
	ListDeleted() ([]domain.Account, error)
	Restore(id uint) error
	PurgeDeletedBefore(cutoff time.Time) (int64, error)
}

type GormAccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository { return &GormAccountRepository{db: db} }

func (r *GormAccountRepository) FindByID(id uint) (*domain.Account, error) {
	var a domain.Account
	err := r.db.First(&a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "account", "find_by_id", "not_found")
			return nil, ErrAccountNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "account", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "account", "find_by_id", "success")
	return &a, nil
}

func (r *GormAccountRepository) FindByEmail(email string) (*domain.Account, error) {
	var a domain.Account
	err := r.db.Where("email = ?", email).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "account", "find_by_email", "not_found")
			return nil, ErrAccountNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "account", "find_by_email", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "account", "find_by_email", "success")
	return &a, nil
}

func (r *GormAccountRepository) Create(account *domain.Account) error {
	err := r.db.Create(account).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "account", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "account", "create", "success")
	return nil
}

func (r *GormAccountRepository) Update(account *domain.Account) error {
	err := r.db.Save(account).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "account", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "account", "update", "success")
	return nil
}

func (r *GormAccountRepository) ListPaged(req PageRequest) (PageResult[domain.Account], error) {
	result, err := listPaged[domain.Account](r.db, req, "account")
	return result, err
}

func (r *GormAccountRepository) SoftDelete(id uint) error {
	return softDeleteByID[domain.Account](r.db, "account", id)
}

func (r *GormAccountRepository) ListDeleted() ([]domain.Account, error) {
	return listDeleted[domain.Account](r.db, "account")
}

func (r *GormAccountRepository) Restore(id uint) error {
	return restoreByID[domain.Account](r.db, "account", id)
}

func (r *GormAccountRepository) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	return purgeDeletedBefore[domain.Account](r.db, "account", cutoff)
}
