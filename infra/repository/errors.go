package repository

import (
	"errors"

	"github.com/amirasaad/fundledger/pkg/domain"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts gorm errors anywhere in the chain to domain
// sentinels. Unknown errors are returned unchanged.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		switch {
		case errors.Is(cur, gorm.ErrDuplicatedKey):
			return domain.ErrAlreadyExists
		case errors.Is(cur, gorm.ErrRecordNotFound):
			return domain.ErrNotFound
		}
	}
	return err
}

// WrapError runs a gorm operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(&row).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}

// notFound maps a missing record to a typed NotFoundError naming the resource.
func notFound(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFoundError(resource, id)
	}
	return MapGormErrorToDomain(err)
}

// affected turns a zero-row write into a NotFoundError.
func affected(res *gorm.DB, resource string, id any) error {
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError(resource, id)
	}
	return nil
}
