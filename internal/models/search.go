package models

// SearchResult is a catalog item returned by the search endpoint. It is never persisted.
type SearchResult struct {
	ID            string    `json:"id"` // External ID, scoped to Source
	Source        Source    `json:"source"`
	MediaType     MediaType `json:"media_type"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"original_title,omitempty"`
	Year          *int      `json:"year,omitempty"`
	PosterURL     string    `json:"poster_url,omitempty"`
	Overview      string    `json:"overview,omitempty"`
	VoteAverage   *float64  `json:"vote_average,omitempty"` // 0-10

	// Set by the server when the item is already on the media server
	AlreadyAvailable bool `json:"already_available,omitempty"`
}

// MediaDetails extends a search result with catalog details
type MediaDetails struct {
	SearchResult

	Genres        []string `json:"genres,omitempty"`
	Studios       []string `json:"studios,omitempty"`
	SeasonsCount  *int     `json:"seasons_count,omitempty"`
	EpisodesCount *int     `json:"episodes_count,omitempty"`
	TrailerURL    string   `json:"trailer_url,omitempty"`
}
