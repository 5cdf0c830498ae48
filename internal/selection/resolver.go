// Package selection narrows a child option list to the currently selected parent,
// e.g. the schemes of one project.
package selection

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/logger"
)

// ErrStale is returned by a fetch whose parent was replaced while it was in flight.
// Its result has been dropped.
var ErrStale = errors.New("stale child list discarded")

// State of a resolver.
type State int

const (
	NoParent State = iota
	LoadingChildren
	ChildrenReady
	ChildrenError
)

func (s State) String() string {
	switch s {
	case LoadingChildren:
		return "loading"
	case ChildrenReady:
		return "ready"
	case ChildrenError:
		return "error"
	default:
		return "no_parent"
	}
}

// Fetcher loads the children of one parent.
type Fetcher[C any] func(ctx context.Context, parentID string) ([]C, error)

// Snapshot is a copy of the resolver state.
type Snapshot[C any] struct {
	State    State
	ParentID string
	Children []C
	ChildID  string
	Err      error
}

// Resolver holds one parent selection and the child options that belong to it.
type Resolver[C any] struct {
	name  string
	fetch Fetcher[C]
	idOf  func(C) string

	mu       sync.Mutex
	gen      uint64
	state    State
	parentID string
	children []C
	childID  string
	err      error
}

// New returns a resolver in NoParent. idOf extracts a child's id.
func New[C any](name string, fetch Fetcher[C], idOf func(C) string) *Resolver[C] {
	return &Resolver[C]{name: name, fetch: fetch, idOf: idOf}
}

// SelectParent switches to parentID. The previous child list and child selection are
// cleared before the fetch starts, so nothing stale is selectable while it runs. An
// empty parentID moves to NoParent without fetching. If another SelectParent happens
// before the fetch returns, the result is dropped and ErrStale is returned.
func (r *Resolver[C]) SelectParent(ctx context.Context, parentID string) error {
	gen := r.begin(parentID)
	return r.complete(ctx, parentID, gen)
}

func (r *Resolver[C]) begin(parentID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.parentID = parentID
	r.children = nil
	r.childID = ""
	r.err = nil
	if parentID == "" {
		r.state = NoParent
	} else {
		r.state = LoadingChildren
	}
	return r.gen
}

func (r *Resolver[C]) complete(ctx context.Context, parentID string, gen uint64) error {
	if parentID == "" {
		return nil
	}
	items, err := r.fetch(ctx, parentID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen || r.parentID != parentID {
		logger.L().Debug("dropping stale child list",
			zap.String("resolver", r.name),
			zap.String("parent_id", parentID),
			zap.String("current_parent_id", r.parentID),
		)
		return ErrStale
	}
	if err != nil {
		r.state = ChildrenError
		r.err = err
		return err
	}
	r.state = ChildrenReady
	r.children = append([]C(nil), items...)
	return nil
}

// Refresh re-fetches the children of the current parent in place. Failures are logged
// and leave the current list untouched; the child selection survives if the child is
// still present.
func (r *Resolver[C]) Refresh(ctx context.Context) {
	r.mu.Lock()
	parentID, gen, state := r.parentID, r.gen, r.state
	r.mu.Unlock()
	if parentID == "" || state == LoadingChildren {
		return
	}

	items, err := r.fetch(ctx, parentID)
	if err != nil {
		logger.L().Warn("background refresh failed",
			zap.String("resolver", r.name),
			zap.String("parent_id", parentID),
			zap.Error(err),
		)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return
	}
	r.state = ChildrenReady
	r.err = nil
	r.children = append([]C(nil), items...)
	if r.childID != "" && r.indexOf(r.childID) < 0 {
		r.childID = ""
	}
}

// SelectChild selects one of the current children. An empty id clears the selection.
func (r *Resolver[C]) SelectChild(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == "" {
		r.childID = ""
		return nil
	}
	if r.state != ChildrenReady {
		return appErr.Validation(map[string]string{r.name: "options are not loaded yet"})
	}
	if r.indexOf(id) < 0 {
		return appErr.Validation(map[string]string{r.name: "is not an option for the selected parent"})
	}
	r.childID = id
	return nil
}

// Selected returns the selected child, if any.
func (r *Resolver[C]) Selected() (C, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero C
	if r.childID == "" {
		return zero, false
	}
	i := r.indexOf(r.childID)
	if i < 0 {
		return zero, false
	}
	return r.children[i], true
}

// ParentID returns the current parent selection.
func (r *Resolver[C]) ParentID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.parentID
}

// Snapshot returns a copy of the current state.
func (r *Resolver[C]) Snapshot() Snapshot[C] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot[C]{
		State:    r.state,
		ParentID: r.parentID,
		Children: append([]C(nil), r.children...),
		ChildID:  r.childID,
		Err:      r.err,
	}
}

// indexOf must be called with mu held.
func (r *Resolver[C]) indexOf(id string) int {
	for i, c := range r.children {
		if r.idOf(c) == id {
			return i
		}
	}
	return -1
}
