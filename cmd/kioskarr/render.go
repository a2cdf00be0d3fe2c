package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/amaumene/kioskarr/internal/i18n"
	"github.com/amaumene/kioskarr/internal/models"
	"github.com/amaumene/kioskarr/internal/status"
)

const (
	dateFormat  = "2006-01-02 15:04"
	progressLen = 10
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// progressBar renders a fraction as "[######----]  60%"
func progressBar(fraction float64) string {
	filled := int(fraction*progressLen + 0.5)
	if filled > progressLen {
		filled = progressLen
	}
	return fmt.Sprintf("[%s%s] %3.0f%%",
		strings.Repeat("#", filled),
		strings.Repeat("-", progressLen-filled),
		fraction*100)
}

func statusCell(tr *i18n.Translator, s models.RequestStatus) string {
	return status.Icon(s) + " " + status.LabelIn(tr, s)
}

func progressCell(r models.MediaRequest) string {
	if !status.IsInProgress(r.Status) {
		return ""
	}
	cell := progressBar(status.DisplayProgress(r))
	if r.DownloadSpeed != "" {
		cell += " " + r.DownloadSpeed
	}
	return cell
}

func yearCell(year *int) string {
	if year == nil {
		return ""
	}
	return fmt.Sprintf("%d", *year)
}

func printRequests(w io.Writer, tr *i18n.Translator, requests []models.MediaRequest, withUser bool) error {
	if len(requests) == 0 {
		_, err := fmt.Fprintln(w, "No requests.")
		return err
	}

	tw := newTable(w)
	header := "ID\tSTATUS\tTYPE\tTITLE\tYEAR\tQUALITY\tPROGRESS\tCREATED"
	if withUser {
		header = "ID\tUSER\tSTATUS\tTYPE\tTITLE\tYEAR\tQUALITY\tPROGRESS\tCREATED"
	}
	fmt.Fprintln(tw, header)

	for _, r := range requests {
		if withUser {
			fmt.Fprintf(tw, "%d\t%s\t", r.ID, r.Username)
		} else {
			fmt.Fprintf(tw, "%d\t", r.ID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			statusCell(tr, r.Status),
			r.MediaType,
			r.Title,
			yearCell(r.Year),
			r.QualityPreference,
			progressCell(r),
			r.CreatedAt.Local().Format(dateFormat),
		)
	}
	return tw.Flush()
}

func printRequest(w io.Writer, tr *i18n.Translator, r models.MediaRequest) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%d\n", r.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", r.Title)
	if r.OriginalTitle != "" && r.OriginalTitle != r.Title {
		fmt.Fprintf(tw, "Original title:\t%s\n", r.OriginalTitle)
	}
	fmt.Fprintf(tw, "Year:\t%s\n", yearCell(r.Year))
	fmt.Fprintf(tw, "Type:\t%s\n", r.MediaType)
	fmt.Fprintf(tw, "Source:\t%s %s\n", r.Source, r.ExternalID)
	fmt.Fprintf(tw, "Status:\t%s\n", statusCell(tr, r.Status))
	if r.StatusMessage != "" {
		fmt.Fprintf(tw, "Message:\t%s\n", r.StatusMessage)
	}
	if p := progressCell(r); p != "" {
		fmt.Fprintf(tw, "Progress:\t%s\n", p)
	}
	fmt.Fprintf(tw, "Quality:\t%s\n", r.QualityPreference)
	if r.SeasonsRequested != "" {
		fmt.Fprintf(tw, "Seasons:\t%s\n", r.SeasonsRequested)
	}
	if r.Username != "" {
		fmt.Fprintf(tw, "User:\t%s\n", r.Username)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", r.CreatedAt.Local().Format(dateFormat))
	fmt.Fprintf(tw, "Updated:\t%s\n", r.UpdatedAt.Local().Format(dateFormat))
	if r.CompletedAt != nil {
		fmt.Fprintf(tw, "Completed:\t%s\n", r.CompletedAt.Local().Format(dateFormat))
	}
	if status.IsCancellable(r.Status) {
		fmt.Fprintf(tw, "Cancellable:\tyes\n")
	}
	return tw.Flush()
}

func printResults(w io.Writer, results []models.SearchResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "#\tSOURCE\tID\tTYPE\tTITLE\tYEAR\tRATING\tAVAILABLE")
	for i, r := range results {
		rating := ""
		if r.VoteAverage != nil {
			rating = fmt.Sprintf("%.1f", *r.VoteAverage)
		}
		available := ""
		if r.AlreadyAvailable {
			available = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, r.Source, r.ID, r.MediaType, r.Title, yearCell(r.Year), rating, available)
	}
	return tw.Flush()
}

func printDetails(w io.Writer, d models.MediaDetails) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Title:\t%s\n", d.Title)
	if d.OriginalTitle != "" && d.OriginalTitle != d.Title {
		fmt.Fprintf(tw, "Original title:\t%s\n", d.OriginalTitle)
	}
	fmt.Fprintf(tw, "Year:\t%s\n", yearCell(d.Year))
	fmt.Fprintf(tw, "Type:\t%s\n", d.MediaType)
	fmt.Fprintf(tw, "Source:\t%s %s\n", d.Source, d.ID)
	if len(d.Genres) > 0 {
		fmt.Fprintf(tw, "Genres:\t%s\n", strings.Join(d.Genres, ", "))
	}
	if len(d.Studios) > 0 {
		fmt.Fprintf(tw, "Studios:\t%s\n", strings.Join(d.Studios, ", "))
	}
	if d.SeasonsCount != nil {
		fmt.Fprintf(tw, "Seasons:\t%d\n", *d.SeasonsCount)
	}
	if d.EpisodesCount != nil {
		fmt.Fprintf(tw, "Episodes:\t%d\n", *d.EpisodesCount)
	}
	if d.TrailerURL != "" {
		fmt.Fprintf(tw, "Trailer:\t%s\n", d.TrailerURL)
	}
	if d.AlreadyAvailable {
		fmt.Fprintf(tw, "Available:\tyes\n")
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if d.Overview != "" {
		_, err := fmt.Fprintf(w, "\n%s\n", d.Overview)
		return err
	}
	return nil
}

func printStats(w io.Writer, s models.RequestStats) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Total:\t%d\n", s.TotalRequests)
	fmt.Fprintf(tw, "Pending:\t%d\n", s.PendingRequests)
	fmt.Fprintf(tw, "Completed:\t%d\n", s.CompletedRequests)
	fmt.Fprintf(tw, "Today:\t%d\n", s.RequestsToday)
	fmt.Fprintf(tw, "Remaining today:\t%d\n", s.RequestsRemaining)
	return tw.Flush()
}

func printUser(w io.Writer, u models.User) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%d\n", u.ID)
	fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
	if u.Email != "" {
		fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	}
	if u.PlexUsername != "" {
		fmt.Fprintf(tw, "Plex:\t%s\n", u.PlexUsername)
	}
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	fmt.Fprintf(tw, "Active:\t%t\n", u.IsActive)
	fmt.Fprintf(tw, "Requests today:\t%d\n", u.DailyRequestsCount)
	if u.LastLogin != nil {
		fmt.Fprintf(tw, "Last login:\t%s\n", u.LastLogin.Local().Format(dateFormat))
	}
	return tw.Flush()
}

func printUsers(w io.Writer, users []models.User) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tROLE\tACTIVE\tTODAY\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%d\t%s\n",
			u.ID, u.Username, u.Email, u.Role, u.IsActive, u.DailyRequestsCount,
			u.CreatedAt.Local().Format(dateFormat))
	}
	return tw.Flush()
}

func printSettings(w io.Writer, settings models.Settings) error {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := newTable(w)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", k, settings[k])
	}
	return tw.Flush()
}
