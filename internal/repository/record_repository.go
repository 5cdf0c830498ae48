package repository

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

// RecordFilter selects one page of one resource. Fields are exact matches on top-level
// body fields.
type RecordFilter struct {
	Resource        string
	Fields          map[string]string
	IncludeInactive bool
	Page            int
	Limit           int
}

type RecordRepository interface {
	BaseRepository[Record]
	Get(ctx context.Context, resource, id string) (*Record, error)
	List(ctx context.Context, f RecordFilter) ([]Record, int64, error)
	// FindByField returns the first record of resource whose body field equals value,
	// ignoring excludeID. It returns nil when there is none.
	FindByField(ctx context.Context, resource, field, value, excludeID string) (*Record, error)
}

type recordRepository struct {
	BaseRepository[Record]
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{BaseRepository: NewBaseRepository[Record](db, "record"), db: db}
}

func (r *recordRepository) Get(ctx context.Context, resource, id string) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).Where("resource = ? AND id = ?", resource, id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "record not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get record failed")
	}
	return &rec, nil
}

func (r *recordRepository) List(ctx context.Context, f RecordFilter) ([]Record, int64, error) {
	q := r.db.WithContext(ctx).Model(&Record{}).Where("resource = ?", f.Resource)
	if !f.IncludeInactive {
		q = q.Where("active = ?", true)
	}
	for field, value := range f.Fields {
		q = q.Where(datatypes.JSONQuery("body").Equals(value, field))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, appErr.Wrap(err, appErr.CodeInternal, "count records failed")
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	var out []Record
	err := q.Order("created_at ASC").Order("id ASC").
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, appErr.Wrap(err, appErr.CodeInternal, "list records failed")
	}
	return out, total, nil
}

func (r *recordRepository) FindByField(ctx context.Context, resource, field, value, excludeID string) (*Record, error) {
	q := r.db.WithContext(ctx).Where("resource = ?", resource).
		Where(datatypes.JSONQuery("body").Equals(value, field))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var rec Record
	err := q.First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "find record failed")
	}
	return &rec, nil
}
