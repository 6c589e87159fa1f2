package repository

import (
	"context"

	"github.com/amirasaad/fundledger/infra/repository/model"
	"github.com/amirasaad/fundledger/pkg/domain/project"
	"github.com/amirasaad/fundledger/pkg/repository/studio"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type studioRepository struct {
	db *gorm.DB
}

func NewStudioRepository(db *gorm.DB) studio.Repository {
	return &studioRepository{db: db}
}

func (r *studioRepository) Create(ctx context.Context, s *project.Studio) error {
	row := model.Studio{Site: model.SiteFromDomain(s.Site)}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&row).Error
	})
}

func (r *studioRepository) Get(ctx context.Context, id uuid.UUID) (*project.Studio, error) {
	var row model.Studio
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "studio", id)
	}
	return &project.Studio{Site: row.ToDomain()}, nil
}

func (r *studioRepository) List(ctx context.Context) ([]*project.Studio, error) {
	var rows []model.Studio
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*project.Studio, 0, len(rows))
	for i := range rows {
		out = append(out, &project.Studio{Site: rows[i].ToDomain()})
	}
	return out, nil
}
