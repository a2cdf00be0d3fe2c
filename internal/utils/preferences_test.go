package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/kioskarr/internal/models"
)

func TestNormalizeQuality(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "1080p", false},
		{"720p", "720p", false},
		{"1080P", "1080p", false},
		{" 4k ", "4K", false},
		{"8K", "", true},
		{"hd", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeQuality(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeSeasons(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"  ", "", false},
		{"all", "all", false},
		{"ALL", "all", false},
		{"1", "1", false},
		{"3, 1,3", "1,3", false},
		{"10,2,2,1", "1,2,10", false},
		{"0", "", true},
		{"1,,2", "", true},
		{"1,two", "", true},
		{"-1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeSeasons(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRequest(t *testing.T) {
	valid := models.CreateRequest{
		MediaType:  models.MediaTypeSeries,
		ExternalID: "1399",
		Source:     models.SourceTMDB,
		Title:      "Game of Thrones",
	}

	got, err := NormalizeRequest(valid)
	require.NoError(t, err)
	assert.Equal(t, "1080p", got.QualityPreference)
	assert.Empty(t, got.SeasonsRequested)

	withSeasons := valid
	withSeasons.SeasonsRequested = "2,1"
	withSeasons.QualityPreference = "4k"
	got, err = NormalizeRequest(withSeasons)
	require.NoError(t, err)
	assert.Equal(t, "1,2", got.SeasonsRequested)
	assert.Equal(t, "4K", got.QualityPreference)

	broken := []func(r *models.CreateRequest){
		func(r *models.CreateRequest) { r.Title = " " },
		func(r *models.CreateRequest) { r.ExternalID = "" },
		func(r *models.CreateRequest) { r.MediaType = "podcast" },
		func(r *models.CreateRequest) { r.Source = "imdb" },
		func(r *models.CreateRequest) { r.QualityPreference = "480p" },
		func(r *models.CreateRequest) { r.SeasonsRequested = "first" },
	}
	for i, mutate := range broken {
		req := valid
		mutate(&req)
		_, err := NormalizeRequest(req)
		assert.Error(t, err, "case %d", i)
	}
}
