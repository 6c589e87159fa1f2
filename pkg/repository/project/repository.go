package project

import (
	"context"

	"github.com/amirasaad/fundledger/pkg/domain/project"
	"github.com/google/uuid"
)

// Repository stores projects with their add-ons and cost-plus settings.
type Repository interface {
	Create(ctx context.Context, p *project.Project) error
	Get(ctx context.Context, id uuid.UUID) (*project.Project, error)
	List(ctx context.Context) ([]*project.Project, error)

	CreateAddOn(ctx context.Context, a *project.AddOn) error
	DeleteAddOn(ctx context.Context, projectID uuid.UUID, id uint) error
	ListAddOns(ctx context.Context, projectID uuid.UUID) ([]*project.AddOn, error)

	CreateSetting(ctx context.Context, s *project.Setting) error
	DeleteSetting(ctx context.Context, projectID uuid.UUID, id uint) error
	ListSettings(ctx context.Context, projectID uuid.UUID) ([]*project.Setting, error)
}
