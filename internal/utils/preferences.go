package utils

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/amaumene/kioskarr/internal/models"
)

// SeasonsAll requests every season of a series
const SeasonsAll = "all"

// NormalizeQuality maps a quality preference onto one of the accepted tiers.
// Empty means the default tier; matching is case-insensitive.
func NormalizeQuality(quality string) (string, error) {
	q := strings.TrimSpace(quality)
	if q == "" {
		return models.DefaultQuality, nil
	}

	for _, allowed := range []string{models.Quality720p, models.Quality1080p, models.Quality4K} {
		if strings.EqualFold(q, allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("invalid quality %q: must be one of 720p, 1080p, 4K", quality)
}

// NormalizeSeasons validates a season selection.
// Accepts "", "all" or a comma list of positive season numbers, returned
// trimmed, de-duplicated and in ascending order ("3, 1,3" -> "1,3").
func NormalizeSeasons(seasons string) (string, error) {
	s := strings.TrimSpace(seasons)
	if s == "" {
		return "", nil
	}
	if strings.EqualFold(s, SeasonsAll) {
		return SeasonsAll, nil
	}

	seen := make(map[int]bool)
	var numbers []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return "", fmt.Errorf("invalid season %q: must be a positive number", part)
		}
		if !seen[n] {
			seen[n] = true
			numbers = append(numbers, n)
		}
	}
	sort.Ints(numbers)

	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ","), nil
}

// NormalizeRequest checks a creation descriptor before it is sent and
// returns it with normalised preferences
func NormalizeRequest(req models.CreateRequest) (models.CreateRequest, error) {
	if strings.TrimSpace(req.Title) == "" {
		return req, fmt.Errorf("title is required")
	}
	if strings.TrimSpace(req.ExternalID) == "" {
		return req, fmt.Errorf("external_id is required")
	}
	if !req.MediaType.Valid() {
		return req, fmt.Errorf("invalid media type %q", req.MediaType)
	}
	if !req.Source.Valid() {
		return req, fmt.Errorf("invalid source %q", req.Source)
	}

	quality, err := NormalizeQuality(req.QualityPreference)
	if err != nil {
		return req, err
	}
	seasons, err := NormalizeSeasons(req.SeasonsRequested)
	if err != nil {
		return req, err
	}

	req.QualityPreference = quality
	req.SeasonsRequested = seasons
	return req, nil
}
