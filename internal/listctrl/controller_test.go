package listctrl

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pradhanfinservdev/pradhanportal-client/pkg/api"
)

type row struct {
	ID     string
	Status string
}

type fetchRecorder struct {
	mu      sync.Mutex
	queries []Query
	result  api.ListResult[row]
	err     error
}

func (f *fetchRecorder) fetch(_ context.Context, q Query) (api.ListResult[row], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.result, f.err
}

func (f *fetchRecorder) calls() []Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Query(nil), f.queries...)
}

func pageOf(n int) api.ListResult[row] {
	items := make([]row, n)
	for i := range items {
		items[i] = row{ID: string(rune('a' + i)), Status: "open"}
	}
	return api.ListResult[row]{Items: items, Pages: 3}
}

func TestLoad_PagerScenario(t *testing.T) {
	rec := &fetchRecorder{result: pageOf(12)}
	ctrl := NewController(rec.fetch, zap.NewNop())

	require.NoError(t, ctrl.Load(context.Background()))
	assert.Len(t, ctrl.Rows(), 12)
	assert.Equal(t, 1, ctrl.Page())
	assert.Equal(t, 3, ctrl.Pages())

	require.True(t, ctrl.GoToPage(2))
	require.NoError(t, ctrl.Load(context.Background()))

	calls := rec.calls()
	require.Len(t, calls, 2, "exactly one new fetch per page change")
	assert.Equal(t, 2, calls[1].Page)
	assert.Equal(t, calls[0].Search, calls[1].Search)
}

func TestPager_ClampedAtBounds(t *testing.T) {
	rec := &fetchRecorder{result: pageOf(12)}
	ctrl := NewController(rec.fetch, zap.NewNop())
	require.NoError(t, ctrl.Load(context.Background()))

	assert.False(t, ctrl.PrevPage(), "previous at page 1 is a no-op")
	assert.Equal(t, 1, ctrl.Page())

	require.True(t, ctrl.GoToPage(3))
	assert.False(t, ctrl.NextPage(), "next at the last page is a no-op")
	assert.Equal(t, 3, ctrl.Page())

	assert.False(t, ctrl.GoToPage(99))
	assert.Equal(t, 3, ctrl.Page())
}

func TestSearchAndFilterResetPage(t *testing.T) {
	rec := &fetchRecorder{result: pageOf(12)}
	ctrl := NewController(rec.fetch, zap.NewNop())
	require.NoError(t, ctrl.Load(context.Background()))
	require.True(t, ctrl.GoToPage(2))

	assert.True(t, ctrl.SetSearch("kulkarni"))
	assert.Equal(t, 1, ctrl.Page())

	require.True(t, ctrl.GoToPage(2))
	assert.True(t, ctrl.SetFilter("status", "open"))
	assert.Equal(t, 1, ctrl.Page())

	// Setting the same values again must not demand another reload.
	assert.False(t, ctrl.SetSearch("kulkarni"))
	assert.False(t, ctrl.SetFilter("status", "open"))
}

func TestSetFilter_EmptyValueRemoves(t *testing.T) {
	rec := &fetchRecorder{result: pageOf(1)}
	ctrl := NewController(rec.fetch, zap.NewNop())

	require.True(t, ctrl.SetFilter("bank", "HDFC"))
	assert.Equal(t, "HDFC", ctrl.Filter("bank"))

	require.True(t, ctrl.SetFilter("bank", ""))
	assert.Empty(t, ctrl.Filter("bank"))
	assert.False(t, ctrl.SetFilter("bank", ""), "removing an absent filter changes nothing")
}

func TestLoad_SkipsReentrantFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var fetches int
	var mu sync.Mutex

	fetch := func(context.Context, Query) (api.ListResult[row], error) {
		mu.Lock()
		fetches++
		first := fetches == 1
		mu.Unlock()
		if first {
			close(started)
			<-release
		}
		return pageOf(2), nil
	}
	ctrl := NewController(fetch, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- ctrl.Load(context.Background()) }()
	<-started

	require.NoError(t, ctrl.Load(context.Background()), "re-entrant load returns without fetching")
	mu.Lock()
	assert.Equal(t, 1, fetches)
	mu.Unlock()

	close(release)
	require.NoError(t, <-done)
}

func TestVisible_PureClientFilterAndSort(t *testing.T) {
	rec := &fetchRecorder{result: api.ListResult[row]{
		Items: []row{
			{ID: "1", Status: "close"},
			{ID: "2", Status: "open"},
			{ID: "3", Status: "close"},
			{ID: "4", Status: "open"},
		},
		Pages: 5,
	}}
	ctrl := NewController(rec.fetch, zap.NewNop())
	require.NoError(t, ctrl.Load(context.Background()))

	ctrl.SetClientFilters(func(r row) bool { return r.ID != "3" })
	ctrl.SetSort(func(a, b row) bool { return a.Status == "open" && b.Status != "open" })

	visible := ctrl.Visible()
	require.Len(t, visible, 3)
	assert.Equal(t, "2", visible[0].ID, "open rows sort before closed ones")
	assert.Equal(t, "4", visible[1].ID, "equal rows keep server order")
	assert.Equal(t, "1", visible[2].ID)

	assert.Len(t, rec.calls(), 1, "client-side narrowing never refetches")
	assert.Equal(t, 5, ctrl.Pages(), "client-side narrowing never changes the server page count")
	assert.Len(t, ctrl.Rows(), 4, "the fetched page itself is untouched")
}

func TestDeleteAndReload(t *testing.T) {
	rec := &fetchRecorder{result: pageOf(3)}
	ctrl := NewController(rec.fetch, zap.NewNop())
	require.NoError(t, ctrl.Load(context.Background()))

	deleted := false
	err := ctrl.DeleteAndReload(context.Background(), func(context.Context) error {
		deleted = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Len(t, rec.calls(), 2, "a confirmed delete always reloads the page")
}

func TestPatch_MutatesFetchedRows(t *testing.T) {
	rec := &fetchRecorder{result: api.ListResult[row]{
		Items: []row{{ID: "1", Status: "open"}},
		Pages: 1,
	}}
	ctrl := NewController(rec.fetch, zap.NewNop())
	require.NoError(t, ctrl.Load(context.Background()))

	ctrl.Patch(func(rows []row) {
		for i := range rows {
			if rows[i].ID == "1" {
				rows[i].Status = "close"
			}
		}
	})
	assert.Equal(t, "close", ctrl.Rows()[0].Status)
	assert.Len(t, rec.calls(), 1, "patching is local, no fetch")
}

func TestLoad_ClampsPageWhenServerShrinks(t *testing.T) {
	rec := &fetchRecorder{result: pageOf(12)}
	ctrl := NewController(rec.fetch, zap.NewNop())
	require.NoError(t, ctrl.Load(context.Background()))
	require.True(t, ctrl.GoToPage(3))

	rec.result = api.ListResult[row]{Items: []row{{ID: "z"}}, Pages: 2}
	require.NoError(t, ctrl.Load(context.Background()))
	assert.Equal(t, 2, ctrl.Page())
}
