package category

import (
	"context"

	"github.com/amirasaad/fundledger/pkg/domain/category"
)

type Repository interface {
	Create(ctx context.Context, c *category.Category) error
	Get(ctx context.Context, id uint) (*category.Category, error)
	List(ctx context.Context) ([]category.Category, error)
}
