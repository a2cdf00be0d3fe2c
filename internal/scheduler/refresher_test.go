package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/kioskarr/internal/models"
	"github.com/amaumene/kioskarr/internal/stores"
)

var errNotUsed = errors.New("not used by the refresher")

type countingAPI struct {
	mine int32
	all  int32

	mu     sync.Mutex
	status models.RequestStatus
}

func (a *countingAPI) list() []models.MediaRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return []models.MediaRequest{{ID: 1, Title: "Dune", Status: a.status}}
}

func (a *countingAPI) setStatus(s models.RequestStatus) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = s
}

func (a *countingAPI) MyRequests(ctx context.Context) ([]models.MediaRequest, error) {
	atomic.AddInt32(&a.mine, 1)
	return a.list(), nil
}

func (a *countingAPI) AllRequests(ctx context.Context) ([]models.MediaRequest, error) {
	atomic.AddInt32(&a.all, 1)
	return a.list(), nil
}

func (a *countingAPI) GetRequest(ctx context.Context, id int64) (*models.MediaRequest, error) {
	return nil, errNotUsed
}

func (a *countingAPI) CreateRequest(ctx context.Context, d models.CreateRequest) (*models.MediaRequest, error) {
	return nil, errNotUsed
}

func (a *countingAPI) CancelRequest(ctx context.Context, id int64) (*models.MediaRequest, error) {
	return nil, errNotUsed
}

func (a *countingAPI) RequestStats(ctx context.Context) (*models.RequestStats, error) {
	return nil, errNotUsed
}

func (a *countingAPI) ApproveRequest(ctx context.Context, id int64) error {
	return errNotUsed
}

func (a *countingAPI) UpdateRequest(ctx context.Context, id int64, patch models.RequestUpdate) (*models.MediaRequest, error) {
	return nil, errNotUsed
}

func newTestRefresher(api *countingAPI) *Refresher {
	store := stores.NewRequestStore(api, nil, nil, zerolog.Nop())
	return NewRefresher(store, time.Second, zerolog.Nop())
}

func TestMountRefreshesUntilUnmount(t *testing.T) {
	api := &countingAPI{status: models.StatusPending}
	r := newTestRefresher(api)

	var snapshots int32
	r.OnRefresh(func(reqs []models.MediaRequest) {
		assert.Len(t, reqs, 1)
		atomic.AddInt32(&snapshots, 1)
	})

	require.NoError(t, r.Mount())
	require.NoError(t, r.Mount(), "mounting twice is a no-op")
	assert.True(t, r.Mounted())

	// Initial fetch plus at least one scheduled tick
	require.Eventually(t, func() bool { return atomic.LoadInt32(&api.mine) >= 2 }, 3*time.Second, 20*time.Millisecond)

	r.Unmount()
	assert.False(t, r.Mounted())
	stopped := atomic.LoadInt32(&api.mine)

	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&api.mine), "no refresh after unmount")
	assert.Equal(t, stopped, atomic.LoadInt32(&snapshots))

	// Unmounting again is harmless
	r.Unmount()
}

func TestAdminModeFetchesAll(t *testing.T) {
	api := &countingAPI{status: models.StatusPending}
	r := newTestRefresher(api)
	r.SetAdminMode(true)

	require.True(t, r.RefreshNow(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.all))
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.mine))
}

func TestUnexpectedTransitionStillAccepted(t *testing.T) {
	api := &countingAPI{status: models.StatusCompleted}
	r := newTestRefresher(api)

	var last []models.MediaRequest
	r.OnRefresh(func(reqs []models.MediaRequest) { last = reqs })

	require.True(t, r.RefreshNow(context.Background()))
	api.setStatus(models.StatusDownloading)
	require.True(t, r.RefreshNow(context.Background()))

	require.Len(t, last, 1)
	assert.Equal(t, models.StatusDownloading, last[0].Status, "server data always wins")
}

// blockingAPI holds every list call until its context ends
type blockingAPI struct {
	*countingAPI
	started chan struct{}
	once    sync.Once
}

func (a *blockingAPI) MyRequests(ctx context.Context) ([]models.MediaRequest, error) {
	a.once.Do(func() { close(a.started) })
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestUnmountDuringFetchLeavesNoError(t *testing.T) {
	api := &blockingAPI{countingAPI: &countingAPI{}, started: make(chan struct{})}
	store := stores.NewRequestStore(api, nil, nil, zerolog.Nop())
	r := NewRefresher(store, time.Minute, zerolog.Nop())

	var snapshots int32
	r.OnRefresh(func([]models.MediaRequest) { atomic.AddInt32(&snapshots, 1) })

	require.NoError(t, r.Mount())
	select {
	case <-api.started:
	case <-time.After(2 * time.Second):
		t.Fatal("initial refresh never started")
	}
	r.Unmount()

	assert.Empty(t, store.Error())
	assert.False(t, store.Loading())
	assert.Equal(t, int32(0), atomic.LoadInt32(&snapshots))
}
