package handlers

import (
	"context"
	"time"

	"fashionflow/forecast"
	"fashionflow/models"
)

// DesignAnalyzer is the generative-model collaborator.
type DesignAnalyzer interface {
	DescribeDesign(ctx context.Context, mimeType string, data []byte) (*models.DesignDescription, error)
	PredictTrend(ctx context.Context, req models.TrendRequest) (*models.TrendPrediction, error)
}

// DesignStore keeps uploaded design images.
type DesignStore interface {
	Save(ctx context.Context, ownerID, mimeType string, data []byte) (*models.Design, error)
	Get(ctx context.Context, ownerID, id string) (*models.Design, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// PredictionStore persists prediction history.
type PredictionStore interface {
	Create(ctx context.Context, rec *models.PredictionRecord) error
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.PredictionRecord, int, error)
	GetByID(ctx context.Context, userID, id string) (*models.PredictionRecord, error)
}

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// Dependencies are the collaborators the handlers are built from.
type Dependencies struct {
	Analyzer     DesignAnalyzer
	Designs      DesignStore
	Predictions  PredictionStore
	Forecaster   *forecast.Generator
	HealthChecks map[string]HealthCheck
}

// Handlers implements the HTTP API.
type Handlers struct {
	analyzer     DesignAnalyzer
	designs      DesignStore
	predictions  PredictionStore
	forecaster   *forecast.Generator
	healthChecks map[string]HealthCheck
	now          func() time.Time
}

// New builds the handlers. A nil Forecaster gets the default generator.
func New(deps Dependencies) *Handlers {
	forecaster := deps.Forecaster
	if forecaster == nil {
		forecaster = forecast.NewGenerator()
	}
	return &Handlers{
		analyzer:     deps.Analyzer,
		designs:      deps.Designs,
		predictions:  deps.Predictions,
		forecaster:   forecaster,
		healthChecks: deps.HealthChecks,
		now:          time.Now,
	}
}

func toForecastPoints(series forecast.Series) []models.ForecastPoint {
	points := make([]models.ForecastPoint, 0, len(series))
	for _, p := range series {
		points = append(points, models.ForecastPoint{Period: p.PeriodLabel, Sales: p.SalesVolume})
	}
	return points
}
