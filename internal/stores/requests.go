package stores

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/amaumene/kioskarr/internal/client"
	"github.com/amaumene/kioskarr/internal/i18n"
	"github.com/amaumene/kioskarr/internal/metrics"
	"github.com/amaumene/kioskarr/internal/models"
	"github.com/amaumene/kioskarr/internal/utils"
)

// RequestAPI is the part of the kiosk API the request store needs
type RequestAPI interface {
	MyRequests(ctx context.Context) ([]models.MediaRequest, error)
	AllRequests(ctx context.Context) ([]models.MediaRequest, error)
	GetRequest(ctx context.Context, id int64) (*models.MediaRequest, error)
	CreateRequest(ctx context.Context, descriptor models.CreateRequest) (*models.MediaRequest, error)
	CancelRequest(ctx context.Context, id int64) (*models.MediaRequest, error)
	RequestStats(ctx context.Context) (*models.RequestStats, error)
	ApproveRequest(ctx context.Context, id int64) error
	UpdateRequest(ctx context.Context, id int64, patch models.RequestUpdate) (*models.MediaRequest, error)
}

// RequestStore holds the user's request list and the outcome of the last operation.
// Operations never return raw errors: failures land in Error().
type RequestStore struct {
	api     RequestAPI
	tr      *i18n.Translator
	metrics *metrics.Metrics
	logger  zerolog.Logger

	mu          sync.Mutex
	requests    []models.MediaRequest
	inflight    int
	err         string
	lastRefresh time.Time
}

// NewRequestStore creates an empty request store
func NewRequestStore(api RequestAPI, tr *i18n.Translator, m *metrics.Metrics, logger zerolog.Logger) *RequestStore {
	if m == nil {
		m = metrics.New(nil)
	}
	return &RequestStore{
		api:      api,
		tr:       tr,
		metrics:  m,
		logger:   logger,
		requests: []models.MediaRequest{},
	}
}

// Requests returns a snapshot of the list in server order
func (s *RequestStore) Requests() []models.MediaRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.MediaRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Loading reports whether an operation is in flight
func (s *RequestStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Error returns the last operation's error message, "" if none
func (s *RequestStore) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearError dismisses the current error
func (s *RequestStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// LastRefresh returns when the list was last replaced by a fetch
func (s *RequestStore) LastRefresh() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefresh
}

func (s *RequestStore) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
	s.inflight++
}

func (s *RequestStore) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
}

// fail records the error message. A call abandoned by its caller records nothing.
func (s *RequestStore) fail(ctx context.Context, err error, fallbackKey string) {
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		s.logger.Debug().Err(err).Msg("Request operation abandoned")
		return
	}

	msg := client.MessageOf(err, s.tr.T(fallbackKey))
	s.logger.Warn().Err(err).Str("message", msg).Msg("Request operation failed")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}

// FetchMine replaces the list with the current user's requests
func (s *RequestStore) FetchMine(ctx context.Context) bool {
	return s.fetch(ctx, s.api.MyRequests)
}

// FetchAll replaces the list with every user's requests (admin)
func (s *RequestStore) FetchAll(ctx context.Context) bool {
	return s.fetch(ctx, s.api.AllRequests)
}

func (s *RequestStore) fetch(ctx context.Context, list func(context.Context) ([]models.MediaRequest, error)) bool {
	s.begin()
	defer s.end()

	requests, err := list(ctx)
	if err != nil {
		s.fail(ctx, err, i18n.MsgLoadRequestsFailed)
		return false
	}
	if requests == nil {
		requests = []models.MediaRequest{}
	}

	s.mu.Lock()
	s.requests = requests
	s.lastRefresh = time.Now()
	s.mu.Unlock()

	s.updateGauge(requests)
	s.logger.Debug().Int("count", len(requests)).Msg("Requests fetched")
	return true
}

func (s *RequestStore) updateGauge(requests []models.MediaRequest) {
	counts := make(map[models.RequestStatus]int)
	for _, r := range requests {
		if r.Status.Known() {
			counts[r.Status]++
		} else {
			counts[models.StatusUnknown]++
		}
	}

	s.metrics.RequestsByStatus.Reset()
	for _, st := range models.Statuses {
		s.metrics.RequestsByStatus.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
	if n := counts[models.StatusUnknown]; n > 0 {
		s.metrics.RequestsByStatus.WithLabelValues("unknown").Set(float64(n))
	}
}

// Create submits a new request and prepends the server copy to the list.
// Invalid preferences fail without calling the API.
func (s *RequestStore) Create(ctx context.Context, descriptor models.CreateRequest) (*models.MediaRequest, bool) {
	s.begin()
	defer s.end()

	normalized, err := utils.NormalizeRequest(descriptor)
	if err != nil {
		s.mu.Lock()
		s.err = err.Error()
		s.mu.Unlock()
		return nil, false
	}

	created, err := s.api.CreateRequest(ctx, normalized)
	if err != nil {
		s.fail(ctx, err, i18n.MsgCreateRequestFailed)
		return nil, false
	}

	s.mu.Lock()
	s.requests = append([]models.MediaRequest{*created}, s.requests...)
	s.mu.Unlock()

	s.logger.Info().
		Int64("id", created.ID).
		Str("title", created.Title).
		Str("status", string(created.Status)).
		Msg("Request created")
	return created, true
}

// Cancel cancels a request and removes it from the list
func (s *RequestStore) Cancel(ctx context.Context, id int64) bool {
	s.begin()
	defer s.end()

	if _, err := s.api.CancelRequest(ctx, id); err != nil {
		s.fail(ctx, err, i18n.MsgCancelRequestFailed)
		return false
	}

	s.mu.Lock()
	kept := make([]models.MediaRequest, 0, len(s.requests))
	for _, r := range s.requests {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.requests = kept
	s.mu.Unlock()

	s.logger.Info().Int64("id", id).Msg("Request cancelled")
	return true
}

// FetchOne refreshes a single request, replacing it in place or prepending it when absent
func (s *RequestStore) FetchOne(ctx context.Context, id int64) (*models.MediaRequest, bool) {
	s.begin()
	defer s.end()

	req, err := s.api.GetRequest(ctx, id)
	if err != nil {
		s.fail(ctx, err, i18n.MsgLoadRequestFailed)
		return nil, false
	}
	s.upsert(*req)
	return req, true
}

// Stats fetches the current user's request summary
func (s *RequestStore) Stats(ctx context.Context) (*models.RequestStats, bool) {
	s.begin()
	defer s.end()

	stats, err := s.api.RequestStats(ctx)
	if err != nil {
		s.fail(ctx, err, i18n.MsgLoadStatsFailed)
		return nil, false
	}
	return stats, true
}

// Approve releases a request awaiting approval (admin) and refetches it
func (s *RequestStore) Approve(ctx context.Context, id int64) bool {
	s.begin()
	err := s.api.ApproveRequest(ctx, id)
	if err != nil {
		s.fail(ctx, err, i18n.MsgApproveRequestFailed)
		s.end()
		return false
	}
	s.end()

	s.logger.Info().Int64("id", id).Msg("Request approved")
	s.FetchOne(ctx, id)
	return true
}

// Update patches a request (admin) and stores the server copy
func (s *RequestStore) Update(ctx context.Context, id int64, patch models.RequestUpdate) (*models.MediaRequest, bool) {
	s.begin()
	defer s.end()

	updated, err := s.api.UpdateRequest(ctx, id, patch)
	if err != nil {
		s.fail(ctx, err, i18n.MsgUpdateRequestFailed)
		return nil, false
	}
	s.upsert(*updated)
	return updated, true
}

func (s *RequestStore) upsert(req models.MediaRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.requests {
		if s.requests[i].ID == req.ID {
			s.requests[i] = req
			return
		}
	}
	s.requests = append([]models.MediaRequest{req}, s.requests...)
}
