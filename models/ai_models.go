package models

import "strings"

// DesignDescription is the model's reading of an uploaded design.
type DesignDescription struct {
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Attributes  []string `json:"attributes"`
}

// TrendRequest carries the product and target market sent to the model.
type TrendRequest struct {
	Description string `json:"description"`
	Location    string `json:"location"`
	AgeGroup    string `json:"ageGroup"`
	Gender      string `json:"gender"`
}

// TrendPrediction is the structured market assessment returned by the model.
type TrendPrediction struct {
	TrendLabel      string   `json:"trendLabel"`
	Sentiment       string   `json:"sentiment"`
	ConfidenceLevel string   `json:"confidenceLevel"`
	AnalysisText    string   `json:"analysisText"`
	KeyFactors      []string `json:"keyFactors,omitempty"`
}

const (
	NeutralTrendLabel  = "Stable"
	NeutralSentiment   = "Neutral"
	NeutralConfidence  = "Medium"
	neutralAnalysisMsg = "The AI trend service was unavailable, so a neutral market outlook was assumed."
)

// NeutralPrediction is substituted when the model cannot be reached or
// returns nothing usable.
func NeutralPrediction() TrendPrediction {
	return TrendPrediction{
		TrendLabel:      NeutralTrendLabel,
		Sentiment:       NeutralSentiment,
		ConfidenceLevel: NeutralConfidence,
		AnalysisText:    neutralAnalysisMsg,
	}
}

// WithDefaults fills blank fields from the neutral prediction.
func (p TrendPrediction) WithDefaults() TrendPrediction {
	n := NeutralPrediction()
	if strings.TrimSpace(p.TrendLabel) == "" {
		p.TrendLabel = n.TrendLabel
	}
	if strings.TrimSpace(p.Sentiment) == "" {
		p.Sentiment = n.Sentiment
	}
	if strings.TrimSpace(p.ConfidenceLevel) == "" {
		p.ConfidenceLevel = n.ConfidenceLevel
	}
	return p
}
