package stores

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/amaumene/kioskarr/internal/client"
	"github.com/amaumene/kioskarr/internal/i18n"
	"github.com/amaumene/kioskarr/internal/models"
)

// SearchAPI is the part of the kiosk API the search store needs
type SearchAPI interface {
	Search(ctx context.Context, query string, searchType models.SearchType) ([]models.SearchResult, error)
	Details(ctx context.Context, source models.Source, id string, mediaType models.MediaType) (*models.MediaDetails, error)
}

// SearchStore holds the results of the most recently completed catalog search.
// Concurrent searches are not sequenced: the last response to arrive wins.
type SearchStore struct {
	api     SearchAPI
	tr      *i18n.Translator
	details *cache.Cache
	logger  zerolog.Logger

	mu        sync.Mutex
	results   []models.SearchResult
	lastQuery string
	inflight  int
	err       string
}

// NewSearchStore creates an empty search store; details are cached for detailsTTL
func NewSearchStore(api SearchAPI, tr *i18n.Translator, detailsTTL time.Duration, logger zerolog.Logger) *SearchStore {
	if detailsTTL <= 0 {
		detailsTTL = 10 * time.Minute
	}
	return &SearchStore{
		api:     api,
		tr:      tr,
		details: cache.New(detailsTTL, 2*detailsTTL),
		logger:  logger,
		results: []models.SearchResult{},
	}
}

// Results returns a snapshot of the current results
func (s *SearchStore) Results() []models.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SearchResult, len(s.results))
	copy(out, s.results)
	return out
}

// LastQuery returns the query of the last non-blank search
func (s *SearchStore) LastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

// Loading reports whether a search is in flight
func (s *SearchStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Error returns the last search error message, "" if none
func (s *SearchStore) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearError dismisses the current error
func (s *SearchStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// Clear resets results, last query and error
func (s *SearchStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = []models.SearchResult{}
	s.lastQuery = ""
	s.err = ""
}

// Search runs a catalog search. A blank query clears the results without calling the API.
func (s *SearchStore) Search(ctx context.Context, query string, searchType models.SearchType) bool {
	if strings.TrimSpace(query) == "" {
		s.mu.Lock()
		s.results = []models.SearchResult{}
		s.mu.Unlock()
		return true
	}
	if searchType == "" {
		searchType = models.SearchTypeAll
	}

	s.mu.Lock()
	s.lastQuery = query
	s.err = ""
	s.inflight++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	results, err := s.api.Search(ctx, query, searchType)
	if err != nil {
		msg := client.MessageOf(err, s.tr.T(i18n.MsgSearchFailed))
		s.logger.Warn().Err(err).Str("query", query).Msg("Search failed")

		s.mu.Lock()
		s.err = msg
		s.results = []models.SearchResult{}
		s.mu.Unlock()
		return false
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()

	s.logger.Debug().
		Str("query", query).
		Str("type", string(searchType)).
		Int("results", len(results)).
		Msg("Search completed")
	return true
}

// Details returns catalog details for one item, served from cache while fresh
func (s *SearchStore) Details(ctx context.Context, source models.Source, id string, mediaType models.MediaType) (*models.MediaDetails, bool) {
	key := string(source) + "/" + id + "/" + string(mediaType)
	if cached, found := s.details.Get(key); found {
		d := cached.(models.MediaDetails)
		return &d, true
	}

	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()

	details, err := s.api.Details(ctx, source, id, mediaType)
	if err != nil {
		msg := client.MessageOf(err, s.tr.T(i18n.MsgDetailsFailed))
		s.logger.Warn().Err(err).Str("source", string(source)).Str("id", id).Msg("Details lookup failed")

		s.mu.Lock()
		s.err = msg
		s.mu.Unlock()
		return nil, false
	}

	s.details.SetDefault(key, *details)
	return details, true
}
