// Package lifecycle coordinates create, update, delete and download for one resource
// and keeps a local listing that never shows unconfirmed changes as fact.
package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/client"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/logger"
)

// Backend is the resource surface the manager drives. *client.Resource[T] satisfies it.
type Backend[T any] interface {
	List(ctx context.Context, q client.Query) (*models.Page[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, payload any, files ...client.File) (*T, error)
	Update(ctx context.Context, id string, partial any, files ...client.File) (*T, error)
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, path string) (*client.Blob, error)
}

var _ Backend[models.LegalAgreement] = (*client.Resource[models.LegalAgreement])(nil)

// DeleteMode says what "delete" means for a resource.
type DeleteMode int

const (
	// HardDelete issues DELETE on the write port.
	HardDelete DeleteMode = iota
	// SoftDelete issues an update that clears the active flag. The row stays readable
	// by id and drops out of default listings.
	SoftDelete
)

// Policy is the per-resource lifecycle configuration.
type Policy struct {
	Name              string
	RequireAttachment bool
	AttachmentField   string
	DeleteMode        DeleteMode
	SoftDeletePayload any
}

// Deactivate is the usual soft-delete payload.
var Deactivate = map[string]any{"is_active": false}

// Pending marks a row with an operation the server has not confirmed yet.
type Pending int

const (
	Committed Pending = iota
	PendingUpdate
	PendingDelete
)

func (p Pending) String() string {
	switch p {
	case PendingUpdate:
		return "updating"
	case PendingDelete:
		return "deleting"
	default:
		return ""
	}
}

// Row is one listed entity plus its pending marker.
type Row[T any] struct {
	Item    T
	Pending Pending
}

// Manager owns the listing of one screen. It is not shared between screens.
type Manager[T any] struct {
	backend Backend[T]
	policy  Policy
	idOf    func(T) string
	confirm Confirmer
	saver   Saver
	log     *zap.Logger

	mu        sync.Mutex
	query     client.Query
	gen       uint64
	committed []T
	page      models.Page[T]
	pending   map[string]Pending
	inflight  map[string]struct{}
}

// Option configures a Manager.
type Option[T any] func(*Manager[T])

func WithConfirmer[T any](c Confirmer) Option[T] {
	return func(m *Manager[T]) { m.confirm = c }
}

func WithSaver[T any](s Saver) Option[T] {
	return func(m *Manager[T]) { m.saver = s }
}

func WithQuery[T any](q client.Query) Option[T] {
	return func(m *Manager[T]) { m.query = q }
}

// New returns a manager with an empty listing; call Refresh to load it.
func New[T any](backend Backend[T], policy Policy, idOf func(T) string, opts ...Option[T]) *Manager[T] {
	if policy.AttachmentField == "" {
		policy.AttachmentField = "file"
	}
	if policy.DeleteMode == SoftDelete && policy.SoftDeletePayload == nil {
		policy.SoftDeletePayload = Deactivate
	}
	m := &Manager[T]{
		backend:  backend,
		policy:   policy,
		idOf:     idOf,
		log:      logger.Named("lifecycle").With(zap.String("resource", policy.Name)),
		pending:  map[string]Pending{},
		inflight: map[string]struct{}{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Policy returns the resource policy.
func (m *Manager[T]) Policy() Policy { return m.policy }

// SetQuery changes the listing filter. It takes effect on the next Refresh.
func (m *Manager[T]) SetQuery(q client.Query) {
	m.mu.Lock()
	m.query = q
	m.mu.Unlock()
}

// Refresh replaces the committed listing with a fresh read. A response that arrives
// after a newer Refresh started is dropped.
func (m *Manager[T]) Refresh(ctx context.Context) error {
	m.mu.Lock()
	m.gen++
	gen, q := m.gen, m.query
	m.mu.Unlock()

	page, err := m.backend.List(ctx, q)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return nil
	}
	m.committed = append([]T(nil), page.Items...)
	m.page = *page
	m.page.Items = nil
	return nil
}

// Items returns the committed listing with pending markers applied.
func (m *Manager[T]) Items() []Row[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]Row[T], len(m.committed))
	for i, it := range m.committed {
		rows[i] = Row[T]{Item: it, Pending: m.pending[m.idOf(it)]}
	}
	return rows
}

// Page returns the paging metadata of the last listing, without items.
func (m *Manager[T]) Page() models.Page[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page
}

// Get reads one entity fresh from the read port.
func (m *Manager[T]) Get(ctx context.Context, id string) (*T, error) {
	return m.backend.Get(ctx, id)
}

// Create posts a new entity and reloads the listing; the server fills in fields the
// console cannot predict.
func (m *Manager[T]) Create(ctx context.Context, payload any, files ...client.File) (*T, error) {
	release, err := m.acquire("create")
	if err != nil {
		return nil, err
	}
	defer release()

	if m.policy.RequireAttachment && len(files) == 0 {
		return nil, appErr.Validation(map[string]string{m.policy.AttachmentField: "a file is required"})
	}
	created, err := m.backend.Create(ctx, payload, files...)
	if err != nil {
		m.log.Info("create rejected", zap.Error(err))
		return nil, err
	}
	m.reload(ctx)
	return created, nil
}

// Update sends a partial update. Without files the existing attachment is kept.
func (m *Manager[T]) Update(ctx context.Context, id string, partial any, files ...client.File) (*T, error) {
	release, err := m.acquire("update:" + id)
	if err != nil {
		return nil, err
	}
	defer release()

	m.mark(id, PendingUpdate)
	updated, err := m.backend.Update(ctx, id, partial, files...)
	m.unmark(id)
	if err != nil {
		m.log.Info("update rejected", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	m.reload(ctx)
	return updated, nil
}

// Delete asks the confirmer first and only then calls the backend. Soft-deleting an
// already inactive row is a successful no-op on the server side.
func (m *Manager[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return appErr.Validation(map[string]string{"id": "is required"})
	}
	if m.confirm == nil {
		return appErr.New(appErr.CodeInternal, "no confirmation gate configured")
	}
	release, err := m.acquire("delete:" + id)
	if err != nil {
		return err
	}
	defer release()

	ok, err := m.confirm.Confirm(ctx, fmt.Sprintf("Delete %s %s?", m.policy.Name, id))
	if err != nil {
		return appErr.Wrap(err, appErr.CodeCanceled, "confirmation failed")
	}
	if !ok {
		return appErr.New(appErr.CodeCanceled, "delete canceled")
	}

	m.mark(id, PendingDelete)
	if m.policy.DeleteMode == SoftDelete {
		_, err = m.backend.Update(ctx, id, m.policy.SoftDeletePayload)
	} else {
		err = m.backend.Delete(ctx, id)
	}
	m.unmark(id)
	if err != nil {
		m.log.Info("delete rejected", zap.String("id", id), zap.Error(err))
		return err
	}
	m.log.Info("deleted", zap.String("id", id), zap.Bool("soft", m.policy.DeleteMode == SoftDelete))
	m.reload(ctx)
	return nil
}

// Download fetches an attachment and hands it to the saver. The listing is never
// touched, whatever happens.
func (m *Manager[T]) Download(ctx context.Context, path string) (string, error) {
	if m.saver == nil {
		return "", appErr.New(appErr.CodeInternal, "no saver configured")
	}
	release, err := m.acquire("download:" + path)
	if err != nil {
		return "", err
	}
	defer release()

	blob, err := m.backend.Download(ctx, path)
	if err != nil {
		return "", err
	}
	dst, err := m.saver.Save(ctx, blob)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "save download")
	}
	return dst, nil
}

// acquire refuses a second dispatch of the same action while one is in flight.
func (m *Manager[T]) acquire(key string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.inflight[key]; busy {
		return nil, appErr.New(appErr.CodeBusy, "This action is already in progress").WithMeta("action", key)
	}
	m.inflight[key] = struct{}{}
	return func() {
		m.mu.Lock()
		delete(m.inflight, key)
		m.mu.Unlock()
	}, nil
}

func (m *Manager[T]) mark(id string, p Pending) {
	m.mu.Lock()
	m.pending[id] = p
	m.mu.Unlock()
}

func (m *Manager[T]) unmark(id string) {
	m.mu.Lock()
	delete(m.pending, id)
	m.mu.Unlock()
}

// reload re-fetches after a successful mutation. The mutation already succeeded, so a
// failed reload is only logged.
func (m *Manager[T]) reload(ctx context.Context) {
	if err := m.Refresh(ctx); err != nil {
		m.log.Warn("listing refresh failed", zap.Error(err))
	}
}
