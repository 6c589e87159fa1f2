// Package category manages the expense category tree.
package category

import (
	"context"
	"log/slog"

	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/domain"
	"github.com/amirasaad/fundledger/pkg/domain/category"
	"github.com/amirasaad/fundledger/pkg/repository"
)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func NewService(deps config.Deps) *Service {
	return &Service{uow: deps.Uow, logger: deps.Logger.With("service", "category")}
}

// Create adds a category under parentID, or a root when parentID is nil.
func (s *Service) Create(ctx context.Context, description string, parentID *uint) (*category.Category, error) {
	v := &domain.ValidationError{}
	domain.ValidateRequiredString(v, "description", description)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	c := &category.Category{Description: description, ParentID: parentID}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		if parentID != nil {
			if _, err := repo.Get(ctx, *parentID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		s.logger.Error("Create category failed", "description", description, "error", err)
		return nil, err
	}
	s.logger.Info("Create category successful", "categoryID", c.ID)
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]category.Category, error) {
	repo, err := s.uow.CategoryRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// Tree returns the category forest below parentID, all roots when nil.
func (s *Service) Tree(ctx context.Context, parentID *uint) ([]*category.Node, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return category.BuildTree(items, parentID)
}
