package repository

import (
	"context"

	"github.com/amirasaad/fundledger/infra/repository/model"
	"github.com/amirasaad/fundledger/pkg/domain/project"
	projectrepo "github.com/amirasaad/fundledger/pkg/repository/project"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a project repository, including add-ons and settings.
func NewProjectRepository(db *gorm.DB) projectrepo.Repository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, p *project.Project) error {
	row := model.Project{Site: model.SiteFromDomain(p.Site)}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&row).Error
	})
}

func (r *projectRepository) Get(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var row model.Project
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "project", id)
	}
	return &project.Project{Site: row.ToDomain()}, nil
}

func (r *projectRepository) List(ctx context.Context) ([]*project.Project, error) {
	var rows []model.Project
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*project.Project, 0, len(rows))
	for i := range rows {
		out = append(out, &project.Project{Site: rows[i].ToDomain()})
	}
	return out, nil
}

func (r *projectRepository) CreateAddOn(ctx context.Context, a *project.AddOn) error {
	row := model.AddOnFromDomain(a)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	a.ID = row.ID
	return nil
}

func (r *projectRepository) DeleteAddOn(ctx context.Context, projectID uuid.UUID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", id, projectID).
		Delete(&model.ProjectAddOn{})
	return affected(res, "addOn", id)
}

func (r *projectRepository) ListAddOns(ctx context.Context, projectID uuid.UUID) ([]*project.AddOn, error) {
	var rows []model.ProjectAddOn
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*project.AddOn, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

func (r *projectRepository) CreateSetting(ctx context.Context, s *project.Setting) error {
	row := model.SettingFromDomain(s)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	s.ID = row.ID
	return nil
}

func (r *projectRepository) DeleteSetting(ctx context.Context, projectID uuid.UUID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", id, projectID).
		Delete(&model.ProjectSetting{})
	return affected(res, "setting", id)
}

func (r *projectRepository) ListSettings(ctx context.Context, projectID uuid.UUID) ([]*project.Setting, error) {
	var rows []model.ProjectSetting
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*project.Setting, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}
