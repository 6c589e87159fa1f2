// Package project manages the master data the ledger is posted against:
// projects, studios, project add-ons and cost-plus settings.
package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/amirasaad/fundledger/pkg/domain"
	"github.com/amirasaad/fundledger/pkg/domain/project"
	"github.com/amirasaad/fundledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func NewService(deps config.Deps) *Service {
	return &Service{uow: deps.Uow, logger: deps.Logger.With("service", "project")}
}

// SiteInput is the form data shared by projects and studios.
type SiteInput struct {
	Code          string
	Name          string
	Description   string
	Location      string
	EstimatedCost *decimal.Decimal
}

func (in SiteInput) site() (project.Site, error) {
	return project.NewSite(in.Code, in.Name, in.Description, in.Location, in.EstimatedCost)
}

func codeTaken(err error, code string) error {
	if errors.Is(err, domain.ErrAlreadyExists) {
		return domain.NewValidationError("code", fmt.Sprintf("Code %s is already in use.", code))
	}
	return err
}

func (s *Service) CreateProject(ctx context.Context, in SiteInput) (*project.Project, error) {
	site, err := in.site()
	if err != nil {
		return nil, err
	}
	p := &project.Project{Site: site}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.ProjectRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, p)
	})
	if err != nil {
		s.logger.Error("CreateProject failed", "code", site.Code, "error", err)
		return nil, codeTaken(err, site.Code)
	}
	s.logger.Info("CreateProject successful", "projectID", p.ID, "code", p.Code)
	return p, nil
}

func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	repo, err := s.uow.ProjectRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

func (s *Service) ListProjects(ctx context.Context) ([]*project.Project, error) {
	repo, err := s.uow.ProjectRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

func (s *Service) CreateStudio(ctx context.Context, in SiteInput) (*project.Studio, error) {
	site, err := in.site()
	if err != nil {
		return nil, err
	}
	st := &project.Studio{Site: site}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.StudioRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, st)
	})
	if err != nil {
		s.logger.Error("CreateStudio failed", "code", site.Code, "error", err)
		return nil, codeTaken(err, site.Code)
	}
	s.logger.Info("CreateStudio successful", "studioID", st.ID, "code", st.Code)
	return st, nil
}

func (s *Service) GetStudio(ctx context.Context, id uuid.UUID) (*project.Studio, error) {
	repo, err := s.uow.StudioRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

func (s *Service) ListStudios(ctx context.Context) ([]*project.Studio, error) {
	repo, err := s.uow.StudioRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// AddAddOn records an add-on expense; its total is amount × quantity.
func (s *Service) AddAddOn(
	ctx context.Context,
	projectID uuid.UUID,
	description string,
	amount, quantity decimal.Decimal,
	costPlus bool,
	userID string,
) (a *project.AddOn, err error) {
	a, err = project.NewAddOn(projectID, description, amount, quantity, costPlus, userID)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.ProjectRepository()
		if err != nil {
			return err
		}
		if _, err := repo.Get(ctx, projectID); err != nil {
			return err
		}
		return repo.CreateAddOn(ctx, a)
	})
	if err != nil {
		s.logger.Error("AddAddOn failed", "projectID", projectID, "error", err)
		return nil, err
	}
	s.logger.Info("AddAddOn successful", "projectID", projectID, "addOnID", a.ID, "total", a.Total.String())
	return a, nil
}

func (s *Service) DeleteAddOn(ctx context.Context, projectID uuid.UUID, id uint) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.ProjectRepository()
		if err != nil {
			return err
		}
		return repo.DeleteAddOn(ctx, projectID, id)
	})
}

func (s *Service) ListAddOns(ctx context.Context, projectID uuid.UUID) ([]*project.AddOn, error) {
	repo, err := s.uow.ProjectRepository()
	if err != nil {
		return nil, err
	}
	if _, err := repo.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return repo.ListAddOns(ctx, projectID)
}

// SettingInput is the form data of a cost-plus rule.
type SettingInput struct {
	Description     string
	PercentageAddOn decimal.Decimal
	StartDate       time.Time
	EndDate         *time.Time
	IsContingency   bool
}

// AddSetting stores a cost-plus rule; dates are kept as calendar dates.
func (s *Service) AddSetting(ctx context.Context, projectID uuid.UUID, in SettingInput) (st *project.Setting, err error) {
	st, err = project.NewSetting(projectID, in.Description, in.PercentageAddOn, in.StartDate, in.EndDate, in.IsContingency)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.ProjectRepository()
		if err != nil {
			return err
		}
		if _, err := repo.Get(ctx, projectID); err != nil {
			return err
		}
		return repo.CreateSetting(ctx, st)
	})
	if err != nil {
		s.logger.Error("AddSetting failed", "projectID", projectID, "error", err)
		return nil, err
	}
	s.logger.Info("AddSetting successful", "projectID", projectID, "settingID", st.ID)
	return st, nil
}

func (s *Service) DeleteSetting(ctx context.Context, projectID uuid.UUID, id uint) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.ProjectRepository()
		if err != nil {
			return err
		}
		return repo.DeleteSetting(ctx, projectID, id)
	})
}

func (s *Service) ListSettings(ctx context.Context, projectID uuid.UUID) ([]*project.Setting, error) {
	repo, err := s.uow.ProjectRepository()
	if err != nil {
		return nil, err
	}
	if _, err := repo.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return repo.ListSettings(ctx, projectID)
}
