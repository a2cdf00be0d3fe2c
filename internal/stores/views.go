package stores

import (
	"fmt"
	"strings"

	"github.com/amaumene/kioskarr/internal/models"
)

// View is a derived tab over the request list
type View string

const (
	ViewAll       View = "all"
	ViewPending   View = "pending"
	ViewCompleted View = "completed"
	ViewFailed    View = "failed"
)

// Views lists the derived tabs in display order
var Views = []View{ViewAll, ViewPending, ViewCompleted, ViewFailed}

// ParseView resolves a view name, empty meaning all
func ParseView(name string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(name)))
	if v == "" {
		return ViewAll, nil
	}
	for _, known := range Views {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q: must be one of all, pending, completed, failed", name)
}

// Statuses of each derived view. cancelled and awaiting_approval are in none
// of them and only show up in the unfiltered list.
var (
	pendingStatuses = map[models.RequestStatus]bool{
		models.StatusPending:     true,
		models.StatusSearching:   true,
		models.StatusDownloading: true,
		models.StatusProcessing:  true,
	}
	completedStatuses = map[models.RequestStatus]bool{
		models.StatusCompleted: true,
	}
	failedStatuses = map[models.RequestStatus]bool{
		models.StatusError: true,
	}
)

// Pending returns the requests still moving through the pipeline
func Pending(requests []models.MediaRequest) []models.MediaRequest {
	return filter(requests, func(r models.MediaRequest) bool { return pendingStatuses[r.Status] })
}

// Completed returns the requests available on the media server
func Completed(requests []models.MediaRequest) []models.MediaRequest {
	return filter(requests, func(r models.MediaRequest) bool { return completedStatuses[r.Status] })
}

// Failed returns the requests that ended in error
func Failed(requests []models.MediaRequest) []models.MediaRequest {
	return filter(requests, func(r models.MediaRequest) bool { return failedStatuses[r.Status] })
}

// Filter applies a derived view
func Filter(requests []models.MediaRequest, view View) []models.MediaRequest {
	switch view {
	case ViewPending:
		return Pending(requests)
	case ViewCompleted:
		return Completed(requests)
	case ViewFailed:
		return Failed(requests)
	default:
		return filter(requests, func(models.MediaRequest) bool { return true })
	}
}

// WithStatus keeps the requests in exactly one status
func WithStatus(requests []models.MediaRequest, s models.RequestStatus) []models.MediaRequest {
	return filter(requests, func(r models.MediaRequest) bool { return r.Status == s })
}

func filter(requests []models.MediaRequest, keep func(models.MediaRequest) bool) []models.MediaRequest {
	out := make([]models.MediaRequest, 0, len(requests))
	for _, r := range requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
