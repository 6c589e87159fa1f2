package studio

import (
	"context"

	"github.com/amirasaad/fundledger/pkg/domain/project"
	"github.com/google/uuid"
)

// Repository stores studios.
type Repository interface {
	Create(ctx context.Context, s *project.Studio) error
	Get(ctx context.Context, id uuid.UUID) (*project.Studio, error)
	List(ctx context.Context) ([]*project.Studio, error)
}
