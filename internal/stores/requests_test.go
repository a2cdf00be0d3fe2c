package stores

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/kioskarr/internal/client"
	"github.com/amaumene/kioskarr/internal/i18n"
	"github.com/amaumene/kioskarr/internal/metrics"
	"github.com/amaumene/kioskarr/internal/models"
)

// fakeRequestAPI is an in-memory kiosk API
type fakeRequestAPI struct {
	mu       sync.Mutex
	mine     []models.MediaRequest
	err      error
	nextID   int64
	creates  int
	approved []int64
}

func (f *fakeRequestAPI) MyRequests(ctx context.Context) ([]models.MediaRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.MediaRequest, len(f.mine))
	copy(out, f.mine)
	return out, nil
}

func (f *fakeRequestAPI) AllRequests(ctx context.Context) ([]models.MediaRequest, error) {
	return f.MyRequests(ctx)
}

func (f *fakeRequestAPI) GetRequest(ctx context.Context, id int64) (*models.MediaRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.mine {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, &client.APIError{StatusCode: 404, Detail: "Demande non trouvée"}
}

func (f *fakeRequestAPI) CreateRequest(ctx context.Context, d models.CreateRequest) (*models.MediaRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.err != nil {
		return nil, f.err
	}
	created := models.MediaRequest{
		ID:                f.nextID,
		MediaType:         d.MediaType,
		ExternalID:        d.ExternalID,
		Source:            d.Source,
		Title:             d.Title,
		QualityPreference: d.QualityPreference,
		Status:            models.StatusPending,
	}
	f.mine = append([]models.MediaRequest{created}, f.mine...)
	return &created, nil
}

func (f *fakeRequestAPI) CancelRequest(ctx context.Context, id int64) (*models.MediaRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	// The server keeps cancelled requests out of the user's list
	kept := f.mine[:0]
	for _, r := range f.mine {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.mine = kept
	return nil, nil
}

func (f *fakeRequestAPI) RequestStats(ctx context.Context) (*models.RequestStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &models.RequestStats{TotalRequests: len(f.mine), RequestsRemaining: 8}, nil
}

func (f *fakeRequestAPI) ApproveRequest(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.approved = append(f.approved, id)
	for i := range f.mine {
		if f.mine[i].ID == id {
			f.mine[i].Status = models.StatusPending
		}
	}
	return nil
}

func (f *fakeRequestAPI) UpdateRequest(ctx context.Context, id int64, patch models.RequestUpdate) (*models.MediaRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.mine {
		if f.mine[i].ID == id {
			if patch.Status != nil {
				f.mine[i].Status = *patch.Status
			}
			updated := f.mine[i]
			return &updated, nil
		}
	}
	return nil, &client.APIError{StatusCode: 404}
}

func (f *fakeRequestAPI) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func seedRequests() []models.MediaRequest {
	return []models.MediaRequest{
		{ID: 3, Title: "Dune", Status: models.StatusDownloading},
		{ID: 2, Title: "Akira", Status: models.StatusCompleted},
		{ID: 1, Title: "Heat", Status: models.StatusError},
	}
}

func newTestRequestStore(t *testing.T, api *fakeRequestAPI) (*RequestStore, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(nil)
	store := NewRequestStore(api, i18n.NewTranslator("fr"), m, zerolog.Nop())
	return store, m
}

func matrixDescriptor() models.CreateRequest {
	return models.CreateRequest{
		MediaType:         models.MediaTypeMovie,
		ExternalID:        "603",
		Source:            models.SourceTMDB,
		Title:             "The Matrix",
		QualityPreference: "1080p",
	}
}

func TestFetchMine(t *testing.T) {
	api := &fakeRequestAPI{mine: seedRequests()}
	store, m := newTestRequestStore(t, api)

	require.True(t, store.FetchMine(context.Background()))
	assert.Equal(t, seedRequests(), store.Requests())
	assert.Empty(t, store.Error())
	assert.False(t, store.Loading())
	assert.False(t, store.LastRefresh().IsZero())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsByStatus.WithLabelValues("downloading")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestsByStatus.WithLabelValues("cancelled")))
}

func TestFetchFailureKeepsList(t *testing.T) {
	api := &fakeRequestAPI{mine: seedRequests()}
	store, _ := newTestRequestStore(t, api)
	require.True(t, store.FetchMine(context.Background()))

	api.setErr(errors.New("connection refused"))
	assert.False(t, store.FetchMine(context.Background()))
	assert.Equal(t, seedRequests(), store.Requests())
	assert.Equal(t, "Erreur lors du chargement des demandes", store.Error())

	api.setErr(nil)
	require.True(t, store.FetchMine(context.Background()))
	assert.Empty(t, store.Error(), "every operation starts by clearing the error")
}

func TestCreateSuccessPrepends(t *testing.T) {
	api := &fakeRequestAPI{mine: seedRequests(), nextID: 42}
	store, _ := newTestRequestStore(t, api)
	require.True(t, store.FetchMine(context.Background()))
	before := store.Requests()

	created, ok := store.Create(context.Background(), matrixDescriptor())
	require.True(t, ok)
	require.NotNil(t, created)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, models.StatusPending, created.Status)

	after := store.Requests()
	require.Len(t, after, len(before)+1)
	assert.Equal(t, *created, after[0])
	assert.Equal(t, before, after[1:])
}

func TestCreateFailureLeavesListUnchanged(t *testing.T) {
	api := &fakeRequestAPI{mine: seedRequests(), nextID: 42}
	store, _ := newTestRequestStore(t, api)
	require.True(t, store.FetchMine(context.Background()))
	before := store.Requests()

	api.setErr(&client.APIError{StatusCode: 429, Detail: "Limite quotidienne atteinte"})
	created, ok := store.Create(context.Background(), matrixDescriptor())
	assert.False(t, ok)
	assert.Nil(t, created)
	assert.Equal(t, before, store.Requests())
	assert.Equal(t, "Limite quotidienne atteinte", store.Error())
}

func TestCreateValidationSkipsAPI(t *testing.T) {
	api := &fakeRequestAPI{nextID: 1}
	store, _ := newTestRequestStore(t, api)

	bad := matrixDescriptor()
	bad.QualityPreference = "8K"
	_, ok := store.Create(context.Background(), bad)
	assert.False(t, ok)
	assert.Contains(t, store.Error(), "invalid quality")
	assert.Equal(t, 0, api.creates)
	assert.Empty(t, store.Requests())
}

func TestCancelRemovesExactlyOne(t *testing.T) {
	api := &fakeRequestAPI{mine: seedRequests()}
	store, _ := newTestRequestStore(t, api)
	require.True(t, store.FetchMine(context.Background()))

	require.True(t, store.Cancel(context.Background(), 2))
	assert.Equal(t, []models.MediaRequest{seedRequests()[0], seedRequests()[2]}, store.Requests())
}

func TestCancelFailureLeavesListUnchanged(t *testing.T) {
	api := &fakeRequestAPI{mine: seedRequests()}
	store, _ := newTestRequestStore(t, api)
	require.True(t, store.FetchMine(context.Background()))

	api.setErr(errors.New("timeout"))
	assert.False(t, store.Cancel(context.Background(), 2))
	assert.Equal(t, seedRequests(), store.Requests())
	assert.Equal(t, "Erreur lors de l'annulation", store.Error())

	store.ClearError()
	assert.Empty(t, store.Error())
}

func TestCreateCancelRefetchScenario(t *testing.T) {
	api := &fakeRequestAPI{mine: seedRequests(), nextID: 42}
	store, _ := newTestRequestStore(t, api)
	require.True(t, store.FetchMine(context.Background()))

	created, ok := store.Create(context.Background(), matrixDescriptor())
	require.True(t, ok)
	assert.Equal(t, int64(42), store.Requests()[0].ID)
	assert.Equal(t, models.StatusPending, created.Status)

	require.True(t, store.Cancel(context.Background(), 42))
	require.True(t, store.FetchMine(context.Background()))

	ids := make(map[int64]int)
	for _, r := range store.Requests() {
		ids[r.ID]++
	}
	assert.NotContains(t, ids, int64(42))
	for id, n := range ids {
		assert.Equal(t, 1, n, "request %d duplicated", id)
	}
	assert.Len(t, store.Requests(), 3)
}

func TestFetchOneApproveUpdate(t *testing.T) {
	api := &fakeRequestAPI{mine: []models.MediaRequest{
		{ID: 5, Title: "Perfect Blue", Status: models.StatusAwaitingApproval},
		{ID: 4, Title: "Paprika", Status: models.StatusPending},
	}}
	store, _ := newTestRequestStore(t, api)

	// Absent entries are prepended
	got, ok := store.FetchOne(context.Background(), 4)
	require.True(t, ok)
	assert.Equal(t, "Paprika", got.Title)
	require.Len(t, store.Requests(), 1)

	require.True(t, store.FetchMine(context.Background()))
	require.True(t, store.Approve(context.Background(), 5))
	assert.Equal(t, []int64{5}, api.approved)
	assert.Equal(t, models.StatusPending, store.Requests()[0].Status)

	errored := models.StatusError
	updated, ok := store.Update(context.Background(), 4, models.RequestUpdate{Status: &errored})
	require.True(t, ok)
	assert.Equal(t, models.StatusError, updated.Status)
	assert.Equal(t, models.StatusError, store.Requests()[1].Status)
	assert.Len(t, store.Requests(), 2)

	_, ok = store.FetchOne(context.Background(), 99)
	assert.False(t, ok)
	assert.Equal(t, "Demande non trouvée", store.Error())
}

func TestStats(t *testing.T) {
	api := &fakeRequestAPI{mine: seedRequests()}
	store, _ := newTestRequestStore(t, api)

	stats, ok := store.Stats(context.Background())
	require.True(t, ok)
	assert.Equal(t, 3, stats.TotalRequests)

	api.setErr(errors.New("boom"))
	_, ok = store.Stats(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "Erreur lors du chargement des statistiques", store.Error())
}

func TestConcurrentOperations(t *testing.T) {
	api := &fakeRequestAPI{mine: seedRequests(), nextID: 100}
	store, _ := newTestRequestStore(t, api)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.FetchMine(context.Background())
		}()
		go func() {
			defer wg.Done()
			_ = store.Requests()
			_ = store.Loading()
		}()
	}
	wg.Wait()
	assert.False(t, store.Loading())
	assert.Len(t, store.Requests(), 3)
}

func TestAbandonedFetchRecordsNoError(t *testing.T) {
	api := &fakeRequestAPI{err: context.Canceled}
	store := NewRequestStore(api, i18n.NewTranslator("en"), nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, store.FetchMine(ctx))
	assert.Empty(t, store.Error())

	// A live caller still sees the failure
	api.err = errors.New("connection refused")
	assert.False(t, store.FetchMine(context.Background()))
	assert.Equal(t, "Failed to load requests", store.Error())
}
