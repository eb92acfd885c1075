package timeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/feelmitra/mood-journal/internal/analysis"
	"github.com/feelmitra/mood-journal/internal/model"
)

// StoreClient fetches a user's journal list from the journal store over
// HTTP.  The store is an external capability; this client only decodes
// its rows into model entries.
type StoreClient struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
}

func NewStoreClient(baseURL string, timeout time.Duration) *StoreClient {
	return &StoreClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     logrus.WithField("component", "journal-store"),
	}
}

// journalRow mirrors one journal object as the store serves it.  The
// analysis portion shares its wire shape with the analysis service
// response, so it is decoded through the same type.
type journalRow struct {
	JournalID     string   `json:"journal_id"`
	UserID        string   `json:"user_id"`
	UserJournal   string   `json:"user_journal"`
	DayRating     string   `json:"day_rating"`
	SelectedMoods []string `json:"selected_moods"`
	CreatedAt     string   `json:"created_at"`
	analysis.ResultBody
}

// parseCreatedAt accepts the timestamp formats the store has been seen to
// emit.  The zero time signals "unparseable" to the caller.
func parseCreatedAt(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ListJournals fetches all journal entries for a user, newest first as the
// store returns them.  A 404 or an empty body means "no entries yet" and
// resolves to an empty slice, not an error.  Rows whose created_at cannot
// be parsed are dropped with a warning.
//
// Errors: FetchError on transport failure or any other non-2xx status.
func (c *StoreClient) ListJournals(ctx context.Context, userID string) ([]model.JournalEntry, error) {
	url := fmt.Sprintf("%s/api/journals/user/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &model.FetchError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &model.FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.FetchError{StatusCode: resp.StatusCode}
	}

	var rows []journalRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, &model.FetchError{Err: fmt.Errorf("decode journal list: %w", err)}
	}

	entries := make([]model.JournalEntry, 0, len(rows))
	for _, row := range rows {
		createdAt := parseCreatedAt(row.CreatedAt)
		if createdAt.IsZero() {
			c.log.WithFields(logrus.Fields{
				"journal_id": row.JournalID,
				"created_at": row.CreatedAt,
			}).Warn("dropping journal row with unparseable created_at")
			continue
		}
		entries = append(entries, model.JournalEntry{
			JournalID:     row.JournalID,
			UserID:        row.UserID,
			Content:       row.UserJournal,
			DayRating:     model.DayRating(row.DayRating),
			SelectedMoods: row.SelectedMoods,
			CreatedAt:     createdAt,
			Analysis:      row.ToResult(),
		})
	}
	return entries, nil
}
