package selection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

func schemeID(s models.Scheme) string { return s.ID }

func staticSchemes(byProject map[string][]models.Scheme) Fetcher[models.Scheme] {
	return func(ctx context.Context, projectID string) ([]models.Scheme, error) {
		return byProject[projectID], nil
	}
}

func TestParentChangeClearsChild(t *testing.T) {
	r := New("scheme_id", staticSchemes(map[string][]models.Scheme{
		"p1": {{ID: "s1", ProjectID: "p1"}},
		"p2": {{ID: "s2", ProjectID: "p2"}},
	}), schemeID)

	require.NoError(t, r.SelectParent(context.Background(), "p1"))
	require.NoError(t, r.SelectChild("s1"))
	s, ok := r.Selected()
	require.True(t, ok)
	assert.Equal(t, r.ParentID(), s.ProjectID)

	require.NoError(t, r.SelectParent(context.Background(), "p2"))
	_, ok = r.Selected()
	assert.False(t, ok)

	err := r.SelectChild("s1")
	assert.True(t, appErr.IsCode(err, appErr.CodeValidation))

	require.NoError(t, r.SelectParent(context.Background(), ""))
	assert.Equal(t, NoParent, r.Snapshot().State)
	assert.Empty(t, r.Snapshot().Children)
}

func TestChildrenClearedWhileLoading(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	r := New("scheme_id", func(ctx context.Context, projectID string) ([]models.Scheme, error) {
		if projectID == "slow" {
			started <- struct{}{}
			<-release
		}
		return []models.Scheme{{ID: "s-" + projectID, ProjectID: projectID}}, nil
	}, schemeID)

	require.NoError(t, r.SelectParent(context.Background(), "p1"))
	require.NoError(t, r.SelectChild("s-p1"))

	done := make(chan error, 1)
	go func() { done <- r.SelectParent(context.Background(), "slow") }()
	<-started

	snap := r.Snapshot()
	assert.Equal(t, LoadingChildren, snap.State)
	assert.Empty(t, snap.Children)
	assert.Empty(t, snap.ChildID)
	assert.Error(t, r.SelectChild("s-p1"))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, ChildrenReady, r.Snapshot().State)
}

func TestLateResponseIsDiscarded(t *testing.T) {
	releaseA := make(chan struct{})
	startedA := make(chan struct{})
	r := New("scheme_id", func(ctx context.Context, projectID string) ([]models.Scheme, error) {
		if projectID == "A" {
			close(startedA)
			<-releaseA
		}
		return []models.Scheme{{ID: "s-" + projectID, ProjectID: projectID}}, nil
	}, schemeID)

	resA := make(chan error, 1)
	go func() { resA <- r.SelectParent(context.Background(), "A") }()
	<-startedA

	require.NoError(t, r.SelectParent(context.Background(), "B"))
	close(releaseA)
	assert.ErrorIs(t, <-resA, ErrStale)

	snap := r.Snapshot()
	assert.Equal(t, "B", snap.ParentID)
	require.Len(t, snap.Children, 1)
	assert.Equal(t, "s-B", snap.Children[0].ID)
}

func TestLateFailureDoesNotOverwriteReady(t *testing.T) {
	releaseA := make(chan struct{})
	startedA := make(chan struct{})
	r := New("scheme_id", func(ctx context.Context, projectID string) ([]models.Scheme, error) {
		if projectID == "A" {
			close(startedA)
			<-releaseA
			return nil, errors.New("read api timeout")
		}
		return []models.Scheme{{ID: "s-B"}}, nil
	}, schemeID)

	resA := make(chan error, 1)
	go func() { resA <- r.SelectParent(context.Background(), "A") }()
	<-startedA
	require.NoError(t, r.SelectParent(context.Background(), "B"))
	close(releaseA)

	assert.ErrorIs(t, <-resA, ErrStale)
	assert.Equal(t, ChildrenReady, r.Snapshot().State)
}

func TestSameParentReselectedAfterABAIsNotStale(t *testing.T) {
	// A -> B -> A: the first A fetch is stale even though the parent id matches again.
	var mu sync.Mutex
	calls := map[string]int{}
	gate := make(chan struct{})
	first := make(chan struct{})
	r := New("scheme_id", func(ctx context.Context, projectID string) ([]models.Scheme, error) {
		mu.Lock()
		calls[projectID]++
		n := calls[projectID]
		mu.Unlock()
		if projectID == "A" && n == 1 {
			close(first)
			<-gate
			return []models.Scheme{{ID: "old"}}, nil
		}
		return []models.Scheme{{ID: "fresh-" + projectID}}, nil
	}, schemeID)

	res := make(chan error, 1)
	go func() { res <- r.SelectParent(context.Background(), "A") }()
	<-first
	require.NoError(t, r.SelectParent(context.Background(), "B"))
	require.NoError(t, r.SelectParent(context.Background(), "A"))
	close(gate)

	assert.ErrorIs(t, <-res, ErrStale)
	assert.Equal(t, "fresh-A", r.Snapshot().Children[0].ID)
}

func TestErrorThenRetry(t *testing.T) {
	fail := true
	r := New("scheme_id", func(ctx context.Context, projectID string) ([]models.Scheme, error) {
		if fail {
			return nil, appErr.New(appErr.CodeUnreachable, appErr.GenericUnreachableText)
		}
		return []models.Scheme{{ID: "s1"}}, nil
	}, schemeID)

	err := r.SelectParent(context.Background(), "p1")
	assert.True(t, appErr.IsCode(err, appErr.CodeUnreachable))
	assert.Equal(t, ChildrenError, r.Snapshot().State)

	fail = false
	require.NoError(t, r.SelectParent(context.Background(), "p1"))
	assert.Equal(t, ChildrenReady, r.Snapshot().State)
}

func TestRefreshFailureKeepsList(t *testing.T) {
	fail := false
	r := New("scheme_id", func(ctx context.Context, projectID string) ([]models.Scheme, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return []models.Scheme{{ID: "s1"}, {ID: "s2"}}, nil
	}, schemeID)
	require.NoError(t, r.SelectParent(context.Background(), "p1"))
	require.NoError(t, r.SelectChild("s2"))

	fail = true
	r.Refresh(context.Background())
	snap := r.Snapshot()
	assert.Len(t, snap.Children, 2)
	assert.Equal(t, "s2", snap.ChildID)
	assert.NoError(t, snap.Err)
}

func TestChainResetsAllDependents(t *testing.T) {
	units := New("unit_id", func(ctx context.Context, projectID string) ([]models.PurchasedUnit, error) {
		time.Sleep(5 * time.Millisecond)
		return []models.PurchasedUnit{{ID: "u-" + projectID, ProjectID: projectID}}, nil
	}, func(u models.PurchasedUnit) string { return u.ID })
	schemes := New("scheme_id", staticSchemes(map[string][]models.Scheme{"p1": {{ID: "s1"}}, "p2": {{ID: "s2"}}}), schemeID)

	chain := NewChain(schemes, units)
	require.NoError(t, chain.SelectParent(context.Background(), "p1"))
	require.NoError(t, schemes.SelectChild("s1"))
	require.NoError(t, units.SelectChild("u-p1"))

	require.NoError(t, chain.SelectParent(context.Background(), "p2"))
	assert.Equal(t, "p2", chain.ParentID())
	assert.Empty(t, schemes.Snapshot().ChildID)
	assert.Empty(t, units.Snapshot().ChildID)
	assert.Equal(t, "u-p2", units.Snapshot().Children[0].ID)
}
