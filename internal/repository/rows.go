package repository

import (
	"time"

	"gorm.io/datatypes"
)

// Record is one stored entity of any resource; the entity itself is the JSON body.
// Active mirrors the body's is_active flag so listings can filter without JSON queries.
type Record struct {
	ID        string         `gorm:"primaryKey;size:36"`
	Resource  string         `gorm:"size:64;not null;index:idx_records_resource_active,priority:1"`
	Active    bool           `gorm:"not null;index:idx_records_resource_active,priority:2"`
	Body      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Record) TableName() string { return "records" }

// StoredFile is an uploaded attachment addressed by its download path.
type StoredFile struct {
	ID          string `gorm:"primaryKey;size:36"`
	Path        string `gorm:"size:512;not null;uniqueIndex"`
	Name        string `gorm:"size:255;not null"`
	ContentType string `gorm:"size:128"`
	Size        int64
	Checksum    string `gorm:"size:64"`
	Data        []byte `gorm:"not null"`
	CreatedAt   time.Time
}

func (StoredFile) TableName() string { return "files" }

// Credential holds the password hash of an admin record.
type Credential struct {
	AdminID      string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Credential) TableName() string { return "credentials" }

// All lists every row type for migrations.
func All() []any {
	return []any{&Record{}, &StoredFile{}, &Credential{}}
}
