package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amaumene/kioskarr/internal/auth"
	"github.com/amaumene/kioskarr/internal/models"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		searchType string
		detailsID  string
		source     string
		mediaType  string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the TMDB and AniList catalogs",
		Example: `  kioskarr search dune
  kioskarr search "death note" --type anime
  kioskarr search --details 1535 --source anilist --media-type anime`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := opts.bootstrap(cmd, auth.SearchPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if detailsID != "" {
				src := models.Source(source)
				if !src.Valid() {
					return fmt.Errorf("--source must be tmdb or anilist")
				}
				details, ok := a.Search.Details(cmd.Context(), src, detailsID, models.MediaType(mediaType))
				if !ok {
					return errors.New(a.Search.Error())
				}
				return printDetails(cmd.OutOrStdout(), *details)
			}

			if len(args) == 0 {
				return fmt.Errorf("a search query is required")
			}
			st := models.SearchType(searchType)
			if !st.Valid() {
				return fmt.Errorf("invalid --type %q: must be all, movie, tv, series or anime", searchType)
			}

			if !a.Search.Search(cmd.Context(), strings.Join(args, " "), st) {
				return errors.New(a.Search.Error())
			}
			return printResults(cmd.OutOrStdout(), a.Search.Results())
		},
	}

	cmd.Flags().StringVarP(&searchType, "type", "t", string(models.SearchTypeAll), "type filter: all, movie, tv, series, anime")
	cmd.Flags().StringVar(&detailsID, "details", "", "show catalog details of this external ID instead of searching")
	cmd.Flags().StringVar(&source, "source", string(models.SourceTMDB), "catalog of --details: tmdb or anilist")
	cmd.Flags().StringVar(&mediaType, "media-type", "", "media type of --details")
	return cmd
}

func newRequestCmd(opts *rootOptions) *cobra.Command {
	var (
		fromSearch int
		filter     string
		source     string
		mediaType  string
		title      string
		year       int
		quality    string
		seasons    string
	)

	cmd := &cobra.Command{
		Use:   "request <external-id> | --from-search <n> <query>",
		Short: "Request a movie, series or anime",
		Example: `  kioskarr request 603 --source tmdb --type movie --title "The Matrix" --year 1999
  kioskarr request --from-search 1 "game of thrones" --seasons 1,2 --quality 4K`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := opts.bootstrap(cmd, auth.SearchPath)
			if err != nil {
				return err
			}
			defer cleanup()

			prefs := models.Preferences{Quality: quality, Seasons: seasons}
			var descriptor models.CreateRequest

			if fromSearch > 0 {
				if len(args) == 0 {
					return fmt.Errorf("--from-search needs a search query")
				}
				if !a.Search.Search(cmd.Context(), strings.Join(args, " "), models.SearchType(filter)) {
					return errors.New(a.Search.Error())
				}
				results := a.Search.Results()
				if fromSearch > len(results) {
					return fmt.Errorf("search returned %d results, no result #%d", len(results), fromSearch)
				}
				descriptor = models.FromSearchResult(results[fromSearch-1], prefs)
			} else {
				if len(args) != 1 {
					return fmt.Errorf("exactly one external ID is required")
				}
				descriptor = models.FromSearchResult(models.SearchResult{
					ID:        args[0],
					Source:    models.Source(source),
					MediaType: models.MediaType(mediaType),
					Title:     title,
				}, prefs)
				if year > 0 {
					descriptor.Year = &year
				}
			}

			created, ok := a.Requests.Create(cmd.Context(), descriptor)
			if !ok {
				return errors.New(a.Requests.Error())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Request #%d created\n\n", created.ID)
			return printRequest(cmd.OutOrStdout(), a.Translator, *created)
		},
	}

	cmd.Flags().IntVar(&fromSearch, "from-search", 0, "request the n-th result (1-based) of a search for the given query")
	cmd.Flags().StringVar(&filter, "filter", string(models.SearchTypeAll), "type filter of --from-search")
	cmd.Flags().StringVar(&source, "source", string(models.SourceTMDB), "catalog: tmdb or anilist")
	cmd.Flags().StringVar(&mediaType, "type", string(models.MediaTypeMovie), "media type: movie, animated_movie, series, animated_series, anime")
	cmd.Flags().StringVar(&title, "title", "", "title of the requested media")
	cmd.Flags().IntVar(&year, "year", 0, "release year")
	cmd.Flags().StringVar(&quality, "quality", models.DefaultQuality, "quality: 720p, 1080p, 4K")
	cmd.Flags().StringVar(&seasons, "seasons", "", `seasons to fetch: "all" or a list such as 1,2,3`)
	return cmd
}
