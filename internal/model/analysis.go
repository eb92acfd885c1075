package model

// AnalysisResult is the payload returned by the analysis compute service
// for one journal entry.  The core treats it as an immutable value: it is
// decoded once at the service boundary and never modified afterwards.
// The shape mirrors what the service reports – sentiment scores, an
// emotion distribution, stability metrics over the text, and a set of
// personalized recommendations.
type AnalysisResult struct {
	Feelings        string              // short narrative summary of the entry
	Sentiment       SentimentScores     // positive/neutral/negative split
	Emotions        map[string]float64  // top detected emotions, name -> weight
	Transitions     []EmotionTransition // emotion shifts through the text
	Stability       EmotionalStability  // aggregate stability metrics
	Recommendations Recommendations     // suggested follow-ups
}

// SentimentScores holds the three-way sentiment split, each in [0,1].
type SentimentScores struct {
	Positive float64
	Neutral  float64
	Negative float64
}

// EmotionTransition records one shift between detected emotions.
type EmotionTransition struct {
	From  string  // emotion transitioned from
	To    string  // emotion transitioned to
	Score float64 // transition strength in [0,1]
}

// EmotionalStability aggregates how steady the entry's emotional tone is.
type EmotionalStability struct {
	Variance        float64 // variance of the emotion trajectory
	StabilityScore  float64 // overall stability in [0,1]
	EmotionalShifts int     // number of distinct shifts detected
}

// Recommendations bundles the suggestion sections of an analysis.
type Recommendations struct {
	EmotionalInsight string
	Activities       []ActivitySuggestion
	Foods            []FoodSuggestion
	SelfCare         []SelfCareSuggestion
}

// ActivitySuggestion is a single recommended activity.
type ActivitySuggestion struct {
	Activity  string
	Duration  string
	Intensity string
	Benefit   string
}

// FoodSuggestion is a single nutritional recommendation.
type FoodSuggestion struct {
	Food      string
	Calories  string
	Nutrients string
	Benefits  string
}

// SelfCareSuggestion is a single self-care practice recommendation.
type SelfCareSuggestion struct {
	Practice string
	Duration string
	Benefit  string
}
