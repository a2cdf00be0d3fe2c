package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/kioskarr/internal/i18n"
	"github.com/amaumene/kioskarr/internal/models"
)

func TestEveryStatusHasLabelAndIcon(t *testing.T) {
	fr := i18n.NewTranslator("fr")
	en := i18n.NewTranslator("en")

	require.Len(t, All(), 8)
	for _, s := range All() {
		assert.NotEmpty(t, Label(s), "label for %q", s)
		assert.NotEmpty(t, LabelIn(fr, s), "french label for %q", s)
		assert.NotEmpty(t, LabelIn(en, s), "english label for %q", s)
		assert.NotEqual(t, UnknownIcon, Icon(s), "icon for %q", s)
		assert.NotEmpty(t, Icon(s))
	}
}

func TestLabelFallsBackToRawValue(t *testing.T) {
	assert.Equal(t, "queued_remotely", Label("queued_remotely"))
	assert.Equal(t, UnknownIcon, Icon("queued_remotely"))
	assert.Equal(t, "unknown", Label(models.StatusUnknown))
}

func TestLabelsAreTranslated(t *testing.T) {
	assert.Equal(t, "Disponible", LabelIn(i18n.NewTranslator("fr"), models.StatusCompleted))
	assert.Equal(t, "Available", LabelIn(i18n.NewTranslator("en"), models.StatusCompleted))
	assert.Equal(t, "Validation requise", LabelIn(i18n.NewTranslator(""), models.StatusAwaitingApproval))
}

func TestIsCancellable(t *testing.T) {
	cancellable := map[models.RequestStatus]bool{
		models.StatusPending:          true,
		models.StatusSearching:        true,
		models.StatusAwaitingApproval: true,
	}
	for _, s := range All() {
		assert.Equal(t, cancellable[s], IsCancellable(s), "status %q", s)
	}
	assert.False(t, IsCancellable("something_new"))
}

func TestIsInProgressAndProgressFraction(t *testing.T) {
	tests := []struct {
		status     models.RequestStatus
		inProgress bool
		fraction   float64
	}{
		{models.StatusPending, false, 0},
		{models.StatusSearching, false, 0},
		{models.StatusAwaitingApproval, false, 0},
		{models.StatusDownloading, true, 0.60},
		{models.StatusProcessing, true, 0.90},
		{models.StatusCompleted, false, 0},
		{models.StatusError, false, 0},
		{models.StatusCancelled, false, 0},
		{"mystery", false, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.inProgress, IsInProgress(tt.status))
			assert.InDelta(t, tt.fraction, ProgressFraction(tt.status), 1e-9)
		})
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := 0
	for _, s := range All() {
		if IsTerminal(s) {
			terminal++
		}
	}
	assert.Equal(t, 3, terminal)
	assert.True(t, IsTerminal(models.StatusCancelled))
	assert.False(t, IsTerminal(models.StatusProcessing))
}

func TestDisplayProgressPrefersServerValue(t *testing.T) {
	p := 42.0
	r := models.MediaRequest{Status: models.StatusDownloading, DownloadProgress: &p}
	assert.InDelta(t, 0.42, DisplayProgress(r), 1e-9)

	r.DownloadProgress = nil
	assert.InDelta(t, 0.60, DisplayProgress(r), 1e-9)

	over := 250.0
	r.DownloadProgress = &over
	assert.InDelta(t, 1.0, DisplayProgress(r), 1e-9)
}

func TestParseAndSuggest(t *testing.T) {
	assert.Equal(t, models.StatusDownloading, Parse(" Downloading "))
	assert.Equal(t, models.StatusUnknown, Parse("approved"))

	got, ok := Suggest("downlaoding")
	require.True(t, ok)
	assert.Equal(t, models.StatusDownloading, got)

	got, ok = Suggest("cancelled")
	require.True(t, ok)
	assert.Equal(t, models.StatusCancelled, got)

	_, ok = Suggest("completely unrelated words")
	assert.False(t, ok)
	_, ok = Suggest("   ")
	assert.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.StatusPending, models.StatusSearching))
	assert.True(t, CanTransition(models.StatusAwaitingApproval, models.StatusPending))
	assert.True(t, CanTransition(models.StatusProcessing, models.StatusCompleted))
	assert.True(t, CanTransition(models.StatusCompleted, models.StatusCompleted))

	assert.False(t, CanTransition(models.StatusCompleted, models.StatusPending))
	assert.False(t, CanTransition(models.StatusProcessing, models.StatusCancelled))
	assert.False(t, CanTransition(models.StatusPending, models.StatusCompleted))

	for _, s := range All() {
		if IsTerminal(s) {
			for _, to := range All() {
				if to != s {
					assert.False(t, CanTransition(s, to), "%s -> %s", s, to)
				}
			}
		}
	}
}
