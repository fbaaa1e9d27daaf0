package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"fashionflow/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bullishPrediction(models.TrendRequest) (*models.TrendPrediction, error) {
	return &models.TrendPrediction{
		TrendLabel:      "Strong Renewal Likely",
		Sentiment:       "Very Positive",
		ConfidenceLevel: "High",
		AnalysisText:    "Pastel linen is selling out across the region.",
		KeyFactors:      []string{"summer season", "social media"},
	}, nil
}

func decodePrediction(t *testing.T, body envelope) models.PredictionResponse {
	t.Helper()
	var out models.PredictionResponse
	require.NoError(t, json.Unmarshal(body.Data, &out))
	return out
}

func TestCreatePrediction_WithDescription(t *testing.T) {
	env := newTestEnv(t)
	env.analyzer.predict = bullishPrediction

	resp, body := env.doJSON(t, http.MethodPost, "/api/v1/predictions", "user-1", models.PredictionRequest{
		Description: "  Pastel linen summer dress  ",
		Location:    "Colombo",
		AgeGroup:    "18-25",
		Gender:      "  Women ",
	})

	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body.Message)
	out := decodePrediction(t, body)
	assert.True(t, out.AIAvailable)
	assert.Equal(t, "Strong Renewal Likely", out.Prediction.TrendLabel)
	assert.Equal(t, "Pastel linen summer dress", out.Description)
	require.Len(t, out.Forecast, 5)
	assert.Equal(t, "Mar 25", out.Forecast[0].Period)
	assert.Equal(t, "Jul 25", out.Forecast[4].Period)
	assert.Greater(t, out.Forecast[0].Sales, 1800)

	require.Len(t, env.analyzer.requests, 1)
	assert.Equal(t, models.TrendRequest{
		Description: "Pastel linen summer dress",
		Location:    "Colombo",
		AgeGroup:    "18-25",
		Gender:      "Women",
	}, env.analyzer.requests[0])

	require.Len(t, env.predictions.records, 1)
	rec := env.predictions.records[0]
	assert.Equal(t, out.ID, rec.ID)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Nil(t, rec.DesignID)
	assert.Equal(t, out.Forecast, rec.Forecast)
}

func TestCreatePrediction_AIFailureFallsBackToNeutral(t *testing.T) {
	env := newTestEnv(t)
	env.analyzer.predict = func(models.TrendRequest) (*models.TrendPrediction, error) {
		return nil, errors.New("upstream timeout")
	}

	resp, body := env.doJSON(t, http.MethodPost, "/api/v1/predictions", "user-1", models.PredictionRequest{
		Description: "Wool overcoat",
		Location:    "Paris",
	})

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	out := decodePrediction(t, body)
	assert.False(t, out.AIAvailable)
	assert.Equal(t, models.NeutralPrediction(), out.Prediction)
	require.Len(t, out.Forecast, 5)
	for _, p := range out.Forecast {
		assert.GreaterOrEqual(t, p.Sales, 25)
	}
}

func TestCreatePrediction_BlankModelFieldsGetDefaults(t *testing.T) {
	env := newTestEnv(t)
	env.analyzer.predict = func(models.TrendRequest) (*models.TrendPrediction, error) {
		return &models.TrendPrediction{TrendLabel: "Moderate Growth"}, nil
	}

	_, body := env.doJSON(t, http.MethodPost, "/api/v1/predictions", "user-1", models.PredictionRequest{Description: "Denim jacket"})

	out := decodePrediction(t, body)
	assert.True(t, out.AIAvailable)
	assert.Equal(t, "Moderate Growth", out.Prediction.TrendLabel)
	assert.Equal(t, models.NeutralSentiment, out.Prediction.Sentiment)
	assert.Equal(t, models.NeutralConfidence, out.Prediction.ConfidenceLevel)
}

func TestCreatePrediction_FromDesign(t *testing.T) {
	env := newTestEnv(t)
	design := uploadPNG(t, env, "user-1")
	env.analyzer.describe = func(string, []byte) (*models.DesignDescription, error) {
		return &models.DesignDescription{Description: "Oversized graphic hoodie"}, nil
	}
	env.analyzer.predict = bullishPrediction

	resp, body := env.doJSON(t, http.MethodPost, "/api/v1/predictions", "user-1", models.PredictionRequest{
		DesignID: design.ID,
		AgeGroup: "teen",
	})

	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body.Message)
	out := decodePrediction(t, body)
	assert.Equal(t, "Oversized graphic hoodie", out.Description)
	assert.True(t, out.AIAvailable)
	require.Len(t, env.predictions.records, 1)
	require.NotNil(t, env.predictions.records[0].DesignID)
	assert.Equal(t, design.ID, *env.predictions.records[0].DesignID)
}

func TestCreatePrediction_DescriptionWithForeignDesignIsRejected(t *testing.T) {
	env := newTestEnv(t)
	design := uploadPNG(t, env, "user-2")
	env.analyzer.predict = bullishPrediction

	for _, id := range []string{design.ID, uuid.NewString()} {
		resp, body := env.doJSON(t, http.MethodPost, "/api/v1/predictions", "user-1", models.PredictionRequest{
			Description: "Leather ankle boots",
			DesignID:    id,
		})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "error", body.Status)
	}

	assert.Empty(t, env.analyzer.requests)
	assert.Empty(t, env.predictions.records)
}

func TestCreatePrediction_DescriptionWithOwnDesignKeepsLink(t *testing.T) {
	env := newTestEnv(t)
	design := uploadPNG(t, env, "user-1")
	described := false
	env.analyzer.describe = func(string, []byte) (*models.DesignDescription, error) {
		described = true
		return &models.DesignDescription{Description: "unused"}, nil
	}
	env.analyzer.predict = bullishPrediction

	resp, body := env.doJSON(t, http.MethodPost, "/api/v1/predictions", "user-1", models.PredictionRequest{
		Description: "Leather ankle boots",
		DesignID:    design.ID,
	})

	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body.Message)
	assert.False(t, described)
	assert.Equal(t, "Leather ankle boots", decodePrediction(t, body).Description)
	require.Len(t, env.predictions.records, 1)
	require.NotNil(t, env.predictions.records[0].DesignID)
	assert.Equal(t, design.ID, *env.predictions.records[0].DesignID)
}

func TestCreatePrediction_DescribeFailureSkipsModel(t *testing.T) {
	env := newTestEnv(t)
	design := uploadPNG(t, env, "user-1")
	env.analyzer.describe = func(string, []byte) (*models.DesignDescription, error) {
		return nil, errors.New("vision model offline")
	}
	env.analyzer.predict = bullishPrediction

	resp, body := env.doJSON(t, http.MethodPost, "/api/v1/predictions", "user-1", models.PredictionRequest{DesignID: design.ID})

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	out := decodePrediction(t, body)
	assert.False(t, out.AIAvailable)
	assert.Equal(t, models.NeutralTrendLabel, out.Prediction.TrendLabel)
	assert.Empty(t, env.analyzer.requests)
}

func TestCreatePrediction_PersistenceFailureStillResponds(t *testing.T) {
	env := newTestEnv(t)
	env.analyzer.predict = bullishPrediction
	env.predictions.createErr = errors.New("connection refused")

	resp, body := env.doJSON(t, http.MethodPost, "/api/v1/predictions", "user-1", models.PredictionRequest{Description: "Silk scarf"})

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Len(t, decodePrediction(t, body).Forecast, 5)
}

func TestCreatePrediction_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]models.PredictionRequest{
		"empty":             {},
		"blank description": {Description: "   "},
		"bad design id":     {DesignID: "abc"},
		"long description":  {Description: strings.Repeat("x", 4001)},
		"long location":     {Description: "Tote bag", Location: strings.Repeat("y", 201)},
	}
	for name, req := range cases {
		resp, body := env.doJSON(t, http.MethodPost, "/api/v1/predictions", "user-1", req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, name)
		assert.Equal(t, "error", body.Status, name)
	}

	resp, _ := env.do(t, http.MethodPost, "/api/v1/predictions", "user-1", strings.NewReader("{"), fiber.MIMEApplicationJSON)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.doJSON(t, http.MethodPost, "/api/v1/predictions", "user-1", models.PredictionRequest{DesignID: uuid.NewString()})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	assert.Empty(t, env.predictions.records)
}

func TestListAndGetPredictions(t *testing.T) {
	env := newTestEnv(t)
	env.analyzer.predict = bullishPrediction

	var ids []string
	for _, d := range []string{"Linen shirt", "Cargo pants", "Bucket hat"} {
		_, body := env.doJSON(t, http.MethodPost, "/api/v1/predictions", "user-1", models.PredictionRequest{Description: d})
		ids = append(ids, decodePrediction(t, body).ID)
	}
	env.doJSON(t, http.MethodPost, "/api/v1/predictions", "user-2", models.PredictionRequest{Description: "Loafers"})

	resp, body := env.doJSON(t, http.MethodGet, "/api/v1/predictions?page=2&pageSize=2", "user-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page models.PaginatedPredictionsResponse
	require.NoError(t, json.Unmarshal(body.Data, &page))
	assert.Equal(t, 3, page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Bucket hat", page.Data[0].Description)

	resp, body = env.doJSON(t, http.MethodGet, "/api/v1/predictions/"+ids[0], "user-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var rec models.PredictionRecord
	require.NoError(t, json.Unmarshal(body.Data, &rec))
	assert.Equal(t, "Linen shirt", rec.Description)

	resp, _ = env.doJSON(t, http.MethodGet, "/api/v1/predictions/"+ids[0], "user-2", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.doJSON(t, http.MethodGet, "/api/v1/predictions/nope", "user-1", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListPredictions_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.predictions.listErr = errors.New("db gone")

	resp, body := env.doJSON(t, http.MethodGet, "/api/v1/predictions", "user-1", nil)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to retrieve predictions", body.Message)
}
