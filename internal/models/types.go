package models

// MediaType represents the kind of media a request targets
type MediaType string

const (
	MediaTypeMovie          MediaType = "movie"
	MediaTypeAnimatedMovie  MediaType = "animated_movie"
	MediaTypeSeries         MediaType = "series"
	MediaTypeAnimatedSeries MediaType = "animated_series"
	MediaTypeAnime          MediaType = "anime"
)

// MediaTypes lists every request media type in display order
var MediaTypes = []MediaType{
	MediaTypeMovie,
	MediaTypeAnimatedMovie,
	MediaTypeSeries,
	MediaTypeAnimatedSeries,
	MediaTypeAnime,
}

// Valid reports whether t is one of the known request media types
func (t MediaType) Valid() bool {
	for _, known := range MediaTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsSeries reports whether the media type is episodic
func (t MediaType) IsSeries() bool {
	return t == MediaTypeSeries || t == MediaTypeAnimatedSeries || t == MediaTypeAnime
}

// SearchType is the type filter accepted by the catalog search endpoint
type SearchType string

const (
	SearchTypeAll    SearchType = "all"
	SearchTypeMovie  SearchType = "movie"
	SearchTypeTV     SearchType = "tv" // alias of series
	SearchTypeSeries SearchType = "series"
	SearchTypeAnime  SearchType = "anime"
)

// Valid reports whether t is an accepted search filter
func (t SearchType) Valid() bool {
	switch t {
	case SearchTypeAll, SearchTypeMovie, SearchTypeTV, SearchTypeSeries, SearchTypeAnime:
		return true
	}
	return false
}

// Source identifies the catalog an item comes from
type Source string

const (
	SourceTMDB    Source = "tmdb"
	SourceAniList Source = "anilist"
)

// Valid reports whether s is a known catalog
func (s Source) Valid() bool {
	return s == SourceTMDB || s == SourceAniList
}

// RequestStatus is the lifecycle state of a media request, owned by the server
type RequestStatus string

const (
	StatusPending          RequestStatus = "pending"           // Waiting to be processed
	StatusSearching        RequestStatus = "searching"         // Searching for torrents
	StatusAwaitingApproval RequestStatus = "awaiting_approval" // Needs admin approval
	StatusDownloading      RequestStatus = "downloading"       // Download in progress
	StatusProcessing       RequestStatus = "processing"        // Renaming/moving files
	StatusCompleted        RequestStatus = "completed"         // Available on the media server
	StatusError            RequestStatus = "error"             // Failed
	StatusCancelled        RequestStatus = "cancelled"         // Cancelled by user/admin

	// StatusUnknown stands for any value the server sends that is not in the set above
	StatusUnknown RequestStatus = ""
)

// Statuses lists the eight known request statuses in lifecycle order
var Statuses = []RequestStatus{
	StatusPending,
	StatusSearching,
	StatusAwaitingApproval,
	StatusDownloading,
	StatusProcessing,
	StatusCompleted,
	StatusError,
	StatusCancelled,
}

// Known reports whether s is one of the eight request statuses
func (s RequestStatus) Known() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// UserRole is the authorization role of a kiosk user
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// Quality preferences accepted by the request endpoint
const (
	Quality720p  = "720p"
	Quality1080p = "1080p"
	Quality4K    = "4K"

	DefaultQuality = Quality1080p
)
