package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

type FileRepository interface {
	BaseRepository[StoredFile]
	// Put stores f under f.Path, replacing any file already there.
	Put(ctx context.Context, f *StoredFile) error
	GetByPath(ctx context.Context, path string) (*StoredFile, error)
	DeleteByPath(ctx context.Context, paths ...string) error
}

type fileRepository struct {
	BaseRepository[StoredFile]
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{BaseRepository: NewBaseRepository[StoredFile](db, "file"), db: db}
}

func (r *fileRepository) Put(ctx context.Context, f *StoredFile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("path = ?", f.Path).Delete(&StoredFile{}).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "replace file failed")
		}
		if err := tx.Create(f).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "store file failed")
		}
		return nil
	})
}

func (r *fileRepository) GetByPath(ctx context.Context, path string) (*StoredFile, error) {
	var f StoredFile
	if err := r.db.WithContext(ctx).Where("path = ?", path).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "file not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get file failed")
	}
	return &f, nil
}

func (r *fileRepository) DeleteByPath(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("path IN ?", paths).Delete(&StoredFile{}).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "delete files failed")
	}
	return nil
}
