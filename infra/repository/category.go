package repository

import (
	"context"

	"github.com/amirasaad/fundledger/infra/repository/model"
	"github.com/amirasaad/fundledger/pkg/domain/category"
	categoryrepo "github.com/amirasaad/fundledger/pkg/repository/category"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) categoryrepo.Repository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	row := model.CategoryFromDomain(c)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	c.ID = row.ID
	return nil
}

func (r *categoryRepository) Get(ctx context.Context, id uint) (*category.Category, error) {
	var row model.DetailCategory
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "category", id)
	}
	c := row.ToDomain()
	return &c, nil
}

// List returns every category ordered by id, the order the tree builder and
// breakdown buckets rely on.
func (r *categoryRepository) List(ctx context.Context) ([]category.Category, error) {
	var rows []model.DetailCategory
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]category.Category, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}
