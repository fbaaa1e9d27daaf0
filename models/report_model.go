package models

import "time"

// ForecastPoint is one charted month of simulated sales.
type ForecastPoint struct {
	Period string `json:"period"`
	Sales  int    `json:"sales"`
}

// ForecastRequest is the raw input to the forecast generator.
type ForecastRequest struct {
	TrendLabel      string `json:"trendLabel"`
	Sentiment       string `json:"sentiment"`
	ConfidenceLevel string `json:"confidenceLevel"`
	Location        string `json:"location"`
	AgeGroup        string `json:"ageGroup"`
	Gender          string `json:"gender"`
}

// SalesForecastResponse is the complete structure for a forecast API response.
type SalesForecastResponse struct {
	ReportName  string          `json:"reportName"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Forecast    []ForecastPoint `json:"forecast"`
}

// PredictionResponse is returned by the prediction endpoint.
type PredictionResponse struct {
	ID          string          `json:"id"`
	Prediction  TrendPrediction `json:"prediction"`
	AIAvailable bool            `json:"aiAvailable"`
	Description string          `json:"description"`
	Forecast    []ForecastPoint `json:"forecast"`
	GeneratedAt time.Time       `json:"generatedAt"`
}
