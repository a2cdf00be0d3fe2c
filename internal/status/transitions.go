package status

import "github.com/amaumene/kioskarr/internal/models"

// transitions lists the moves the server pipeline performs between statuses.
// Terminal statuses have no outgoing entry.
var transitions = map[models.RequestStatus][]models.RequestStatus{
	models.StatusPending: {
		models.StatusSearching,
		models.StatusAwaitingApproval,
		models.StatusCancelled,
		models.StatusError,
	},
	models.StatusSearching: {
		models.StatusDownloading,
		models.StatusAwaitingApproval,
		models.StatusPending, // nothing found yet, retried later
		models.StatusError,
		models.StatusCancelled,
	},
	models.StatusAwaitingApproval: {
		models.StatusPending, // approved by an admin
		models.StatusCancelled,
		models.StatusError,
	},
	models.StatusDownloading: {
		models.StatusProcessing,
		models.StatusError,
		models.StatusCancelled,
	},
	models.StatusProcessing: {
		models.StatusCompleted,
		models.StatusError,
	},
}

// CanTransition reports whether the pipeline is expected to move a request from one status to another.
// It is advisory only: the server owns the truth and the client accepts whatever it reports.
func CanTransition(from, to models.RequestStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
