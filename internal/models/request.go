package models

import "time"

// MediaRequest is a user's request for a catalog item, as returned by the API
type MediaRequest struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"` // Only filled for admin views

	MediaType     MediaType `json:"media_type"`
	ExternalID    string    `json:"external_id"` // TMDB or AniList ID
	Source        Source    `json:"source"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"original_title,omitempty"`
	Year          *int      `json:"year,omitempty"`
	PosterURL     string    `json:"poster_url,omitempty"`
	Overview      string    `json:"overview,omitempty"`

	QualityPreference string `json:"quality_preference"`
	SeasonsRequested  string `json:"seasons_requested,omitempty"` // "1,2,3" or "all"

	Status        RequestStatus `json:"status"`
	StatusMessage string        `json:"status_message,omitempty"`
	TaskID        string        `json:"celery_task_id,omitempty"`

	// Server-reported transfer details, only present while downloading
	DownloadProgress *float64 `json:"download_progress,omitempty"`
	DownloadSpeed    string   `json:"download_speed,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CreateRequest is the creation descriptor sent to POST /requests
type CreateRequest struct {
	MediaType     MediaType `json:"media_type"`
	ExternalID    string    `json:"external_id"`
	Source        Source    `json:"source"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"original_title,omitempty"`
	Year          *int      `json:"year,omitempty"`
	PosterURL     string    `json:"poster_url,omitempty"`
	Overview      string    `json:"overview,omitempty"`

	QualityPreference string `json:"quality_preference"`
	SeasonsRequested  string `json:"seasons_requested,omitempty"`
}

// Preferences are the user-chosen options attached to a new request
type Preferences struct {
	Quality string
	Seasons string
}

// FromSearchResult builds a creation descriptor by copying the descriptive fields of a search result
func FromSearchResult(result SearchResult, prefs Preferences) CreateRequest {
	return CreateRequest{
		MediaType:         result.MediaType,
		ExternalID:        result.ID,
		Source:            result.Source,
		Title:             result.Title,
		OriginalTitle:     result.OriginalTitle,
		Year:              result.Year,
		PosterURL:         result.PosterURL,
		Overview:          result.Overview,
		QualityPreference: prefs.Quality,
		SeasonsRequested:  prefs.Seasons,
	}
}

// RequestUpdate is the admin patch for PATCH /requests/{id}
type RequestUpdate struct {
	Status            *RequestStatus `json:"status,omitempty"`
	StatusMessage     *string        `json:"status_message,omitempty"`
	QualityPreference *string        `json:"quality_preference,omitempty"`
}

// RequestStats is the current user's request summary
type RequestStats struct {
	TotalRequests     int `json:"total_requests"`
	PendingRequests   int `json:"pending_requests"`
	CompletedRequests int `json:"completed_requests"`
	RequestsToday     int `json:"requests_today"`
	RequestsRemaining int `json:"requests_remaining"`
}
