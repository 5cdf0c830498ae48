// Package sandbox is a local stand-in for the write and read backends. It serves the
// same REST contract from one database so the console can be driven end to end.
package sandbox

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/repository"
	mw "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/sandbox/middleware"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/logger"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/metrics"
)

// Options configures a Sandbox.
type Options struct {
	JWTSecret   []byte
	TokenTTL    time.Duration
	RPS         float64
	Burst       int
	CORSOrigins []string
	// Registry receives the server metrics and backs /metrics. A fresh registry is
	// used when nil.
	Registry *prometheus.Registry
}

// Sandbox holds the repositories and settings shared by both routers.
type Sandbox struct {
	db       *gorm.DB
	records  repository.RecordRepository
	files    repository.FileRepository
	creds    repository.CredentialRepository
	rules    map[string]rule
	opts     Options
	metrics  *metrics.ServerMetrics
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	limiters []*mw.Limiter
}

// New builds a sandbox over an already migrated database.
func New(db *gorm.DB, opts Options) (*Sandbox, error) {
	if len(opts.JWTSecret) == 0 {
		return nil, errors.New("sandbox: jwt secret is required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.RPS <= 0 {
		opts.RPS = 50
	}
	if opts.Burst <= 0 {
		opts.Burst = 100
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	s := &Sandbox{
		db:       db,
		records:  repository.NewRecordRepository(db),
		files:    repository.NewFileRepository(db),
		creds:    repository.NewCredentialRepository(db),
		rules:    map[string]rule{},
		opts:     opts,
		metrics:  metrics.NewServerMetrics(opts.Registry),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger.Named("sandbox"),
		now:      time.Now,
	}
	for _, r := range rules() {
		s.rules[r.name] = r
	}
	return s, nil
}

// SeedAdmin makes sure a super admin with email exists. An existing admin keeps its
// password.
func (s *Sandbox) SeedAdmin(ctx context.Context, name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.creds.GetByEmail(ctx, email); err == nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id := uuid.NewString()
	now := s.now().UTC().Format(time.RFC3339)
	doc := document{
		"id":         id,
		"name":       name,
		"email":      email,
		"role":       string(models.RoleSuperAdmin),
		"is_active":  true,
		"created_at": now,
		"updated_at": now,
	}
	rec := &repository.Record{ID: id, Resource: "admins", Active: true, Body: doc.json()}
	if err := s.records.Create(ctx, rec); err != nil {
		return err
	}
	if err := s.creds.Upsert(ctx, &repository.Credential{AdminID: id, Email: email, PasswordHash: string(hash)}); err != nil {
		return err
	}
	s.log.Info("seeded admin", zap.String("email", email))
	return nil
}
