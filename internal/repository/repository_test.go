package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/database"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "repo.db"), database.Options{MaxRetries: 1})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(All()...))
	return db
}

func TestRecordListFiltersAndHidesInactive(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository(openTestDB(t))

	for _, rec := range []Record{
		{ID: "s1", Resource: "schemes", Active: true, Body: datatypes.JSON(`{"project_id":"p1"}`)},
		{ID: "s2", Resource: "schemes", Active: false, Body: datatypes.JSON(`{"project_id":"p1"}`)},
		{ID: "s3", Resource: "schemes", Active: true, Body: datatypes.JSON(`{"project_id":"p2"}`)},
		{ID: "u1", Resource: "purchased-units", Active: true, Body: datatypes.JSON(`{"project_id":"p1"}`)},
	} {
		rec := rec
		require.NoError(t, repo.Create(ctx, &rec))
	}

	items, total, err := repo.List(ctx, RecordFilter{Resource: "schemes", Fields: map[string]string{"project_id": "p1"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "s1", items[0].ID)

	_, total, err = repo.List(ctx, RecordFilter{Resource: "schemes", IncludeInactive: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	// inactive rows stay readable by id
	rec, err := repo.Get(ctx, "schemes", "s2")
	require.NoError(t, err)
	assert.False(t, rec.Active)

	_, err = repo.Get(ctx, "projects", "s2")
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestFindByField(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository(openTestDB(t))
	require.NoError(t, repo.Create(ctx, &Record{ID: "a1", Resource: "agents", Active: true, Body: datatypes.JSON(`{"pan_number":"ABCDE1234F"}`)}))

	hit, err := repo.FindByField(ctx, "agents", "pan_number", "ABCDE1234F", "")
	require.NoError(t, err)
	require.NotNil(t, hit)

	miss, err := repo.FindByField(ctx, "agents", "pan_number", "ABCDE1234F", "a1")
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestFilePutReplaces(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepository(openTestDB(t))

	require.NoError(t, repo.Put(ctx, &StoredFile{ID: "f1", Path: "legal-agreements/a1/deed.pdf", Name: "deed.pdf", Data: []byte("v1")}))
	require.NoError(t, repo.Put(ctx, &StoredFile{ID: "f2", Path: "legal-agreements/a1/deed.pdf", Name: "deed.pdf", Data: []byte("v2")}))

	f, err := repo.GetByPath(ctx, "legal-agreements/a1/deed.pdf")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(f.Data))

	require.NoError(t, repo.DeleteByPath(ctx, f.Path))
	_, err = repo.GetByPath(ctx, f.Path)
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestCredentialUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialRepository(openTestDB(t))

	require.NoError(t, repo.Upsert(ctx, &Credential{AdminID: "ad1", Email: "old@ramya.test", PasswordHash: "h1"}))
	require.NoError(t, repo.Upsert(ctx, &Credential{AdminID: "ad1", Email: "new@ramya.test", PasswordHash: "h2"}))

	c, err := repo.GetByEmail(ctx, "new@ramya.test")
	require.NoError(t, err)
	assert.Equal(t, "h2", c.PasswordHash)

	_, err = repo.GetByEmail(ctx, "old@ramya.test")
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestCredentialEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialRepository(openTestDB(t))

	require.NoError(t, repo.Upsert(ctx, &Credential{AdminID: "ad1", Email: "same@ramya.test", PasswordHash: "h1"}))
	err := repo.Upsert(ctx, &Credential{AdminID: "ad2", Email: "same@ramya.test", PasswordHash: "h2"})
	assert.True(t, appErr.IsCode(err, appErr.CodeConflict))
}
