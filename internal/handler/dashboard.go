package handler

import (
	"context"  // request-scoped timeouts for downstream calls
	"errors"   // errors.As / errors.Is over the core error taxonomy
	"net/http" // HTTP status codes
	"time"     // timeout durations

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/feelmitra/mood-journal/internal/analysis"
	"github.com/feelmitra/mood-journal/internal/dashboard"
	"github.com/feelmitra/mood-journal/internal/middleware"
	"github.com/feelmitra/mood-journal/internal/model"
)

// DashboardHandler exposes one user's dashboard session over HTTP.  All
// state lives in the registry's controllers; the handler only translates
// between JSON and the core types.
type DashboardHandler struct {
	Registry *dashboard.Registry
}

func NewDashboardHandler(reg *dashboard.Registry) *DashboardHandler {
	return &DashboardHandler{Registry: reg}
}

// ----- DTOs -----

type entryReq struct {
	Content       string   `json:"content"`
	DayRating     string   `json:"day_rating"`
	SelectedMoods []string `json:"selected_moods"`
}

type userPart struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	AuthID    string `json:"auth_user_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type sentimentPart struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

type transitionPart struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Score float64 `json:"score"`
}

type stabilityPart struct {
	Variance        float64 `json:"variance"`
	StabilityScore  float64 `json:"stability_score"`
	EmotionalShifts int     `json:"emotional_shifts"`
}

type activityPart struct {
	Activity  string `json:"activity"`
	Duration  string `json:"duration"`
	Intensity string `json:"intensity"`
	Benefit   string `json:"benefit"`
}

type foodPart struct {
	Food      string `json:"food"`
	Calories  string `json:"calories"`
	Nutrients string `json:"nutrients"`
	Benefits  string `json:"benefits"`
}

type selfCarePart struct {
	Practice string `json:"practice"`
	Duration string `json:"duration"`
	Benefit  string `json:"benefit"`
}

type recommendationsPart struct {
	EmotionalInsight string         `json:"emotional_insight,omitempty"`
	Activities       []activityPart `json:"activities,omitempty"`
	Foods            []foodPart     `json:"foods,omitempty"`
	SelfCare         []selfCarePart `json:"self_care,omitempty"`
}

type analysisPart struct {
	Feelings        string              `json:"feelings,omitempty"`
	Sentiment       sentimentPart       `json:"sentiment"`
	Emotions        map[string]float64  `json:"emotions,omitempty"`
	Transitions     []transitionPart    `json:"transitions,omitempty"`
	Stability       stabilityPart       `json:"stability"`
	Recommendations recommendationsPart `json:"recommendations"`
}

type entryPart struct {
	JournalID     string        `json:"journal_id"`
	Content       string        `json:"content"`
	DayRating     string        `json:"day_rating"`
	SelectedMoods []string      `json:"selected_moods,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	Analysis      *analysisPart `json:"analysis,omitempty"`
}

type dayPart struct {
	Date    string      `json:"date"`
	Entries []entryPart `json:"entries"`
}

type dashboardResp struct {
	State    string    `json:"state"`
	User     userPart  `json:"user"`
	Timeline []dayPart `json:"timeline"`
	Degraded bool      `json:"timeline_degraded"`          // a load failed; timeline may be stale or empty
	LoadErr  string    `json:"timeline_error,omitempty"`   // why, when degraded
}

func toAnalysisPart(a *model.AnalysisResult) *analysisPart {
	if a == nil {
		return nil
	}
	p := &analysisPart{
		Feelings: a.Feelings,
		Sentiment: sentimentPart{
			Positive: a.Sentiment.Positive,
			Neutral:  a.Sentiment.Neutral,
			Negative: a.Sentiment.Negative,
		},
		Emotions: a.Emotions,
		Stability: stabilityPart{
			Variance:        a.Stability.Variance,
			StabilityScore:  a.Stability.StabilityScore,
			EmotionalShifts: a.Stability.EmotionalShifts,
		},
		Recommendations: recommendationsPart{EmotionalInsight: a.Recommendations.EmotionalInsight},
	}
	for _, t := range a.Transitions {
		p.Transitions = append(p.Transitions, transitionPart{From: t.From, To: t.To, Score: t.Score})
	}
	for _, s := range a.Recommendations.Activities {
		p.Recommendations.Activities = append(p.Recommendations.Activities, activityPart{
			Activity: s.Activity, Duration: s.Duration, Intensity: s.Intensity, Benefit: s.Benefit,
		})
	}
	for _, s := range a.Recommendations.Foods {
		p.Recommendations.Foods = append(p.Recommendations.Foods, foodPart{
			Food: s.Food, Calories: s.Calories, Nutrients: s.Nutrients, Benefits: s.Benefits,
		})
	}
	for _, s := range a.Recommendations.SelfCare {
		p.Recommendations.SelfCare = append(p.Recommendations.SelfCare, selfCarePart{
			Practice: s.Practice, Duration: s.Duration, Benefit: s.Benefit,
		})
	}
	return p
}

func toEntryPart(e model.JournalEntry) entryPart {
	return entryPart{
		JournalID:     e.JournalID,
		Content:       e.Content,
		DayRating:     string(e.DayRating),
		SelectedMoods: e.SelectedMoods,
		CreatedAt:     e.CreatedAt,
		Analysis:      toAnalysisPart(e.Analysis),
	}
}

func toUserPart(u model.UserRecord) userPart {
	p := userPart{UserID: u.UserID, Email: u.Email, Username: u.Username, AuthID: u.AuthUserID}
	if !u.CreatedAt.IsZero() {
		p.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return p
}

// toDayParts flattens the bucket map into the wire shape the view renders
// from: dates newest-first, entries within a day newest-first.
func toDayParts(ctrl *dashboard.Controller) []dayPart {
	buckets := ctrl.Timeline()
	days := make([]dayPart, 0, len(buckets.Dates()))
	for _, date := range buckets.Dates() {
		day := dayPart{Date: date}
		for _, e := range buckets.Entries(date) {
			day.Entries = append(day.Entries, toEntryPart(e))
		}
		days = append(days, day)
	}
	return days
}

func toDashboardResp(ctrl *dashboard.Controller) dashboardResp {
	resp := dashboardResp{
		State:    string(ctrl.State()),
		User:     toUserPart(ctrl.User()),
		Timeline: toDayParts(ctrl),
	}
	if err := ctrl.LoadError(); err != nil {
		resp.Degraded = true
		resp.LoadErr = err.Error()
	}
	return resp
}

// errJSON maps a core error to an HTTP status and body.
func errJSON(c echo.Context, err error) error {
	var (
		authErr *model.AuthenticationError
		valErr  *model.ValidationError
		svcErr  *model.AnalysisServiceError
		netErr  *model.NetworkError
	)
	switch {
	case errors.As(err, &authErr):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.As(err, &valErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, analysis.ErrBusy):
		return c.JSON(http.StatusConflict, echo.Map{"error": "an analysis is already in progress"})
	case errors.Is(err, dashboard.ErrNotReady):
		return c.JSON(http.StatusConflict, echo.Map{"error": "dashboard is not ready"})
	case errors.Is(err, dashboard.ErrNoSuchEntry):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "journal entry not found"})
	case errors.As(err, &svcErr), errors.As(err, &netErr):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// lookup finds the live controller for the authenticated session.  The
// returned error is from the core taxonomy; callers pass it to errJSON.
func (h *DashboardHandler) lookup(c echo.Context) (*dashboard.Controller, error) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return nil, &model.AuthenticationError{Reason: "no active session"}
	}
	ctrl, ok := h.Registry.Lookup(sess.Email)
	if !ok || ctrl.State() == dashboard.StateSignedOut {
		return nil, dashboard.ErrNotReady
	}
	return ctrl, nil
}

// Bootstrap resolves the session into an application user, loads the
// timeline and returns the full dashboard view.  A timeline load failure
// still returns 200, flagged as degraded.
func (h *DashboardHandler) Bootstrap(c echo.Context) error {
	sess := middleware.SessionFrom(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	ctrl, err := h.Registry.Bootstrap(ctx, sess)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, toDashboardResp(ctrl))
}

// Timeline returns the current bucket map without re-fetching anything.
func (h *DashboardHandler) Timeline(c echo.Context) error {
	ctrl, err := h.lookup(c)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, toDashboardResp(ctrl))
}

// CreateEntry submits a draft for analysis.  Validation failures and a
// busy coordinator reject the request without touching any state; the
// client keeps the draft and retries.
func (h *DashboardHandler) CreateEntry(c echo.Context) error {
	ctrl, err := h.lookup(c)
	if err != nil {
		return errJSON(c, err)
	}

	var req entryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second) // analysis is slow
	defer cancel()

	entry, err := ctrl.Submit(ctx, req.Content, model.DayRating(req.DayRating), req.SelectedMoods)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"state": string(ctrl.State()),
		"entry": toEntryPart(entry),
	})
}

// Entry switches the dashboard to viewing one timeline entry and returns
// it.
func (h *DashboardHandler) Entry(c echo.Context) error {
	ctrl, err := h.lookup(c)
	if err != nil {
		return errJSON(c, err)
	}
	if err := ctrl.Select(c.Param("id")); err != nil {
		return errJSON(c, err)
	}
	entry, _ := ctrl.Selected()
	return c.JSON(http.StatusOK, toEntryPart(entry))
}

// SignOut ends the session at the identity provider and tears the
// dashboard session down.  A provider failure leaves everything intact
// for a retry.
func (h *DashboardHandler) SignOut(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}
	ctrl, ok := h.Registry.Lookup(sess.Email)
	if !ok {
		return c.NoContent(http.StatusNoContent) // already gone
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := ctrl.SignOut(ctx); err != nil {
		return errJSON(c, err)
	}
	h.Registry.Remove(sess.Email)
	return c.NoContent(http.StatusNoContent)
}
