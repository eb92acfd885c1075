package analysis

import "github.com/feelmitra/mood-journal/internal/model"

// ResultBody is the analysis payload as serialized on the wire.  The
// analysis service returns it for a fresh submission and the journal
// store keeps it alongside each entry, so the timeline client decodes the
// same shape.
type ResultBody struct {
	Feelings  string `json:"feelings"`
	Sentiment struct {
		Scores struct {
			Positive float64 `json:"positive"`
			Neutral  float64 `json:"neutral"`
			Negative float64 `json:"negative"`
		} `json:"scores"`
	} `json:"sentiment"`
	RobertaEmotions struct {
		Top5 map[string]float64 `json:"top_5"`
	} `json:"roberta_emotions"`
	DetailedAnalysis struct {
		EmotionTransitions []struct {
			FromEmotion     string  `json:"from_emotion"`
			ToEmotion       string  `json:"to_emotion"`
			TransitionScore float64 `json:"transition_score"`
		} `json:"emotion_transitions"`
		EmotionalStability struct {
			Variance        float64 `json:"variance"`
			StabilityScore  float64 `json:"stability_score"`
			EmotionalShifts int     `json:"emotional_shifts"`
		} `json:"emotional_stability"`
	} `json:"detailed_analysis"`
	Recommendations struct {
		EmotionalInsight string `json:"emotional_insight"`
		Suggestions      struct {
			Activities []struct {
				Activity  string `json:"activity"`
				Duration  string `json:"duration"`
				Intensity string `json:"intensity"`
				Benefit   string `json:"benefit"`
			} `json:"activities"`
			Foods []struct {
				Food      string `json:"food"`
				Calories  string `json:"calories"`
				Nutrients string `json:"nutrients"`
				Benefits  string `json:"benefits"`
			} `json:"foods"`
			SelfCare []struct {
				Practice string `json:"practice"`
				Duration string `json:"duration"`
				Benefit  string `json:"benefit"`
			} `json:"self_care"`
		} `json:"suggestions"`
	} `json:"recommendations"`
}

// ToResult maps the wire body onto the immutable model value.
func (b *ResultBody) ToResult() *model.AnalysisResult {
	res := &model.AnalysisResult{
		Feelings: b.Feelings,
		Sentiment: model.SentimentScores{
			Positive: b.Sentiment.Scores.Positive,
			Neutral:  b.Sentiment.Scores.Neutral,
			Negative: b.Sentiment.Scores.Negative,
		},
		Emotions: b.RobertaEmotions.Top5,
		Stability: model.EmotionalStability{
			Variance:        b.DetailedAnalysis.EmotionalStability.Variance,
			StabilityScore:  b.DetailedAnalysis.EmotionalStability.StabilityScore,
			EmotionalShifts: b.DetailedAnalysis.EmotionalStability.EmotionalShifts,
		},
	}
	for _, t := range b.DetailedAnalysis.EmotionTransitions {
		res.Transitions = append(res.Transitions, model.EmotionTransition{
			From:  t.FromEmotion,
			To:    t.ToEmotion,
			Score: t.TransitionScore,
		})
	}
	res.Recommendations.EmotionalInsight = b.Recommendations.EmotionalInsight
	for _, a := range b.Recommendations.Suggestions.Activities {
		res.Recommendations.Activities = append(res.Recommendations.Activities, model.ActivitySuggestion{
			Activity: a.Activity, Duration: a.Duration, Intensity: a.Intensity, Benefit: a.Benefit,
		})
	}
	for _, f := range b.Recommendations.Suggestions.Foods {
		res.Recommendations.Foods = append(res.Recommendations.Foods, model.FoodSuggestion{
			Food: f.Food, Calories: f.Calories, Nutrients: f.Nutrients, Benefits: f.Benefits,
		})
	}
	for _, s := range b.Recommendations.Suggestions.SelfCare {
		res.Recommendations.SelfCare = append(res.Recommendations.SelfCare, model.SelfCareSuggestion{
			Practice: s.Practice, Duration: s.Duration, Benefit: s.Benefit,
		})
	}
	return res
}
