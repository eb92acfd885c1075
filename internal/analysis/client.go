// Package analysis submits journal content to the external analysis
// compute service and reconciles the result into a complete journal
// entry.  The scoring itself is opaque: this package only owns the
// submission protocol and the single-outstanding-request rule.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/feelmitra/mood-journal/internal/model"
)

// maxErrorBody bounds how much of a failure response is kept for the
// error message.
const maxErrorBody = 512

// Request carries one submission to the analysis service.
type Request struct {
	UserID        string   `json:"user_id"`
	Email         string   `json:"email"`
	Username      string   `json:"username"`
	Content       string   `json:"content"`
	DayRating     string   `json:"day_rating"`
	SelectedMoods []string `json:"selected_moods"`
	Tags          []string `json:"tags"`
	Timestamp     string   `json:"timestamp"`
}

// response is the service's success payload: the stored entry's identity
// plus the analysis body.
type response struct {
	JournalID string `json:"journal_id"`
	CreatedAt string `json:"created_at"`
	ResultBody
}

// Service is the capability the coordinator drives.  *Client satisfies
// it; tests substitute fakes.
type Service interface {
	Analyze(ctx context.Context, req Request) (*Outcome, error)
}

// Outcome is a successful analysis: the server-assigned identity of the
// stored entry and the decoded result.
type Outcome struct {
	JournalID string
	CreatedAt time.Time
	Result    *model.AnalysisResult
}

// Client talks HTTP to the analysis compute service.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     logrus.WithField("component", "analysis-client"),
	}
}

// Analyze POSTs the submission and decodes the result.  A transport
// failure is a NetworkError; any non-2xx status is an
// AnalysisServiceError carrying the status and a truncated body.
func (c *Client) Analyze(ctx context.Context, req Request) (*Outcome, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analysis", bytes.NewReader(body))
	if err != nil {
		return nil, &model.NetworkError{Op: "submit analysis", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &model.NetworkError{Op: "submit analysis", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &model.AnalysisServiceError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &model.AnalysisServiceError{StatusCode: resp.StatusCode, Body: "undecodable response body"}
	}

	createdAt, err := time.Parse(time.RFC3339, out.CreatedAt)
	if err != nil {
		// The entry was stored; fall back to the submission time rather
		// than failing a completed analysis.
		c.log.WithField("created_at", out.CreatedAt).Warn("analysis response carries unparseable created_at")
		createdAt = time.Now().UTC()
	}
	return &Outcome{
		JournalID: out.JournalID,
		CreatedAt: createdAt,
		Result:    out.ToResult(),
	}, nil
}
