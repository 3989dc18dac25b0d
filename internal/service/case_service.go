package service

import (
	"errors"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/repository"

	"github.com/segmentio/ksuid"
)

var ErrInvalidCaseStatus = errors.New("invalid case status")

type CaseService struct {
	cases repository.CaseRepository
}

func NewCaseService(cases repository.CaseRepository) *CaseService {
	return &CaseService{cases: cases}
}

type CreateCaseInput struct {
	Title       string
	Description string
	Priority    domain.CasePriority
	ReporterID  uint
	AssigneeID  *uint
}

func (s *CaseService) Create(in CreateCaseInput) (*domain.Case, error) {
	priority := in.Priority
	if priority == "" {
		priority = domain.CasePriorityMedium
	}
	c := &domain.Case{
		Number:      "CASE-" + ksuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.CaseStatusOpen,
		Priority:    priority,
		ReporterID:  in.ReporterID,
		AssigneeID:  in.AssigneeID,
	}
	if err := s.cases.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CaseService) Get(id uint) (*domain.Case, error) {
	return s.cases.FindByID(id)
}

func (s *CaseService) List(req repository.PageRequest) (repository.PageResult[domain.Case], error) {
	return s.cases.ListPaged(req)
}

type UpdateCaseInput struct {
	Title       *string
	Description *string
	Status      *domain.CaseStatus
	Priority    *domain.CasePriority
	AssigneeID  *uint
}

func (s *CaseService) Update(id uint, in UpdateCaseInput) (*domain.Case, error) {
	c, err := s.cases.FindByID(id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Priority != nil {
		c.Priority = *in.Priority
	}
	if in.AssigneeID != nil {
		c.AssigneeID = in.AssigneeID
	}
	if in.Status != nil {
		if !validCaseStatus(*in.Status) {
			return nil, ErrInvalidCaseStatus
		}
		c.Status = *in.Status
		if *in.Status == domain.CaseStatusResolved || *in.Status == domain.CaseStatusClosed {
			if c.ResolvedAt == nil {
				now := time.Now().UTC()
				c.ResolvedAt = &now
			}
		} else {
			c.ResolvedAt = nil
		}
	}
	if err := s.cases.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CaseService) Delete(id uint) error {
	return s.cases.SoftDelete(id)
}

func validCaseStatus(st domain.CaseStatus) bool {
	switch st {
	case domain.CaseStatusOpen, domain.CaseStatusInProgress, domain.CaseStatusOnHold,
		domain.CaseStatusResolved, domain.CaseStatusClosed:
		return true
	}
	return false
}
