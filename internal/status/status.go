// Package status classifies request statuses for display.
//
// All functions are pure. Values outside the eight known statuses are treated
// as the unknown variant: they are rendered verbatim instead of failing.
package status

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/amaumene/kioskarr/internal/i18n"
	"github.com/amaumene/kioskarr/internal/models"
)

// All returns the eight known statuses in lifecycle order
func All() []models.RequestStatus {
	out := make([]models.RequestStatus, len(models.Statuses))
	copy(out, models.Statuses)
	return out
}

// Parse maps a raw string onto a known status, or StatusUnknown
func Parse(raw string) models.RequestStatus {
	s := models.RequestStatus(strings.ToLower(strings.TrimSpace(raw)))
	if s.Known() {
		return s
	}
	return models.StatusUnknown
}

const maxSuggestDistance = 3

// Suggest returns the known status closest to raw, when one is close enough
func Suggest(raw string) (models.RequestStatus, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return models.StatusUnknown, false
	}

	best := models.StatusUnknown
	bestDistance := maxSuggestDistance + 1
	for _, s := range models.Statuses {
		d := levenshtein.ComputeDistance(raw, string(s))
		if d < bestDistance {
			best, bestDistance = s, d
		}
	}
	if bestDistance > maxSuggestDistance {
		return models.StatusUnknown, false
	}
	return best, true
}

// IsCancellable reports whether a request can still be cancelled by its owner.
// No irreversible external action (download, file move) has started in these states.
func IsCancellable(s models.RequestStatus) bool {
	switch s {
	case models.StatusPending, models.StatusSearching, models.StatusAwaitingApproval:
		return true
	}
	return false
}

// IsInProgress reports whether a progress indicator should be rendered
func IsInProgress(s models.RequestStatus) bool {
	return s == models.StatusDownloading || s == models.StatusProcessing
}

// IsTerminal reports whether no further transition is expected.
// The server may still revert a terminal status; callers must not rely on it.
func IsTerminal(s models.RequestStatus) bool {
	switch s {
	case models.StatusCompleted, models.StatusError, models.StatusCancelled:
		return true
	}
	return false
}

// ProgressFraction is a coarse display heuristic derived from the status alone.
// It does not measure transfer progress; use the server-reported
// download_progress when the request carries one.
func ProgressFraction(s models.RequestStatus) float64 {
	switch s {
	case models.StatusDownloading:
		return 0.60
	case models.StatusProcessing:
		return 0.90
	}
	return 0
}

// DisplayProgress prefers the server-reported progress (0-100) over the heuristic
func DisplayProgress(r models.MediaRequest) float64 {
	if r.DownloadProgress != nil && r.Status == models.StatusDownloading {
		p := *r.DownloadProgress / 100
		switch {
		case p < 0:
			return 0
		case p > 1:
			return 1
		}
		return p
	}
	return ProgressFraction(r.Status)
}

// UnknownIcon marks a status the client does not know about
const UnknownIcon = "?"

// Icon returns the marker rendered next to a status
func Icon(s models.RequestStatus) string {
	switch s {
	case models.StatusPending:
		return "⏳"
	case models.StatusSearching:
		return "🔍"
	case models.StatusAwaitingApproval:
		return "⚠️"
	case models.StatusDownloading:
		return "⬇️"
	case models.StatusProcessing:
		return "⚙️"
	case models.StatusCompleted:
		return "✅"
	case models.StatusError:
		return "❌"
	case models.StatusCancelled:
		return "🚫"
	}
	return UnknownIcon
}

// labelKey returns the i18n key of a known status, and false for the unknown variant
func labelKey(s models.RequestStatus) (string, bool) {
	switch s {
	case models.StatusPending:
		return i18n.LabelPending, true
	case models.StatusSearching:
		return i18n.LabelSearching, true
	case models.StatusAwaitingApproval:
		return i18n.LabelAwaitingApproval, true
	case models.StatusDownloading:
		return i18n.LabelDownloading, true
	case models.StatusProcessing:
		return i18n.LabelProcessing, true
	case models.StatusCompleted:
		return i18n.LabelCompleted, true
	case models.StatusError:
		return i18n.LabelError, true
	case models.StatusCancelled:
		return i18n.LabelCancelled, true
	}
	return "", false
}

// Label returns the English label of a status, or the raw value when unknown
func Label(s models.RequestStatus) string {
	return LabelIn(nil, s)
}

// LabelIn returns the label of a status in the translator's language
func LabelIn(t *i18n.Translator, s models.RequestStatus) string {
	key, ok := labelKey(s)
	if !ok {
		if s == models.StatusUnknown {
			return "unknown"
		}
		return string(s)
	}
	return t.T(key)
}
