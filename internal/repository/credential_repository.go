package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

type CredentialRepository interface {
	BaseRepository[Credential]
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	GetByAdmin(ctx context.Context, adminID string) (*Credential, error)
	DeleteByAdmin(ctx context.Context, adminID string) error
	// Upsert stores the credential of one admin, keyed by admin id.
	Upsert(ctx context.Context, c *Credential) error
}

type credentialRepository struct {
	BaseRepository[Credential]
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{BaseRepository: NewBaseRepository[Credential](db, "credential"), db: db}
}

func (r *credentialRepository) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	var c Credential
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "credential not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get credential by email failed")
	}
	return &c, nil
}

func (r *credentialRepository) GetByAdmin(ctx context.Context, adminID string) (*Credential, error) {
	var c Credential
	if err := r.db.WithContext(ctx).Where("admin_id = ?", adminID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "credential not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get credential failed")
	}
	return &c, nil
}

func (r *credentialRepository) DeleteByAdmin(ctx context.Context, adminID string) error {
	if err := r.db.WithContext(ctx).Where("admin_id = ?", adminID).Delete(&Credential{}).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "delete credential failed")
	}
	return nil
}

func (r *credentialRepository) Upsert(ctx context.Context, c *Credential) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "admin_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "password_hash", "updated_at"}),
	}).Create(c).Error
	if err != nil {
		return writeFailure(err, "store credential failed")
	}
	return nil
}
