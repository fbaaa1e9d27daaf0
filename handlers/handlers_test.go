package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fashionflow/database"
	"fashionflow/forecast"
	"fashionflow/middleware"
	"fashionflow/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("handlers-test-secret")

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type fakeAnalyzer struct {
	describe func(mimeType string, data []byte) (*models.DesignDescription, error)
	predict  func(req models.TrendRequest) (*models.TrendPrediction, error)

	mu       sync.Mutex
	requests []models.TrendRequest
}

func (f *fakeAnalyzer) DescribeDesign(_ context.Context, mimeType string, data []byte) (*models.DesignDescription, error) {
	if f.describe == nil {
		return nil, errors.New("describe not configured")
	}
	return f.describe(mimeType, data)
}

func (f *fakeAnalyzer) PredictTrend(_ context.Context, req models.TrendRequest) (*models.TrendPrediction, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.predict == nil {
		return nil, errors.New("predict not configured")
	}
	return f.predict(req)
}

type memoryDesigns struct {
	mu      sync.Mutex
	designs map[string]*models.Design
	saveErr error
}

func newMemoryDesigns() *memoryDesigns {
	return &memoryDesigns{designs: make(map[string]*models.Design)}
}

func (m *memoryDesigns) Save(_ context.Context, ownerID, mimeType string, data []byte) (*models.Design, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	d := &models.Design{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		MimeType:  mimeType,
		Size:      len(data),
		CreatedAt: now,
		ExpiresAt: now.Add(30 * time.Minute),
		Data:      data,
	}
	m.designs[d.ID] = d
	return d, nil
}

func (m *memoryDesigns) Get(_ context.Context, ownerID, id string) (*models.Design, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.designs[id]
	if !ok || d.OwnerID != ownerID {
		return nil, database.ErrDesignNotFound
	}
	return d, nil
}

func (m *memoryDesigns) Delete(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.designs[id]
	if !ok || d.OwnerID != ownerID {
		return database.ErrDesignNotFound
	}
	delete(m.designs, id)
	return nil
}

type memoryPredictions struct {
	mu        sync.Mutex
	records   []models.PredictionRecord
	createErr error
	listErr   error
}

func (m *memoryPredictions) Create(_ context.Context, rec *models.PredictionRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.CreatedAt = time.Now().UTC()
	m.records = append(m.records, *rec)
	return nil
}

func (m *memoryPredictions) ListByUser(_ context.Context, userID string, page, pageSize int) ([]models.PredictionRecord, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var mine []models.PredictionRecord
	for _, r := range m.records {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	start := (page - 1) * pageSize
	if start >= len(mine) {
		return []models.PredictionRecord{}, len(mine), nil
	}
	end := min(start+pageSize, len(mine))
	return mine[start:end], len(mine), nil
}

func (m *memoryPredictions) GetByID(_ context.Context, userID, id string) (*models.PredictionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id && r.UserID == userID {
			rec := r
			return &rec, nil
		}
	}
	return nil, database.ErrPredictionNotFound
}

type constantSource float64

func (c constantSource) Float64() float64 { return float64(c) }

type testEnv struct {
	app         *fiber.App
	analyzer    *fakeAnalyzer
	designs     *memoryDesigns
	predictions *memoryPredictions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		analyzer:    &fakeAnalyzer{},
		designs:     newMemoryDesigns(),
		predictions: &memoryPredictions{},
	}
	h := New(Dependencies{
		Analyzer:    env.analyzer,
		Designs:     env.designs,
		Predictions: env.predictions,
		Forecaster: forecast.NewGenerator(
			forecast.WithRandom(constantSource(0.5)),
			forecast.WithClock(func() time.Time { return time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC) }),
		),
		HealthChecks: map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
		},
	})

	app := fiber.New()
	app.Get("/health", h.HandleHealth)
	app.Get("/version", h.HandleVersion)
	api := app.Group("/api/v1", middleware.JWTMiddleware(testSecret))
	api.Post("/designs", h.HandleUploadDesign)
	api.Get("/designs/:designId", h.HandleGetDesign)
	api.Delete("/designs/:designId", h.HandleDeleteDesign)
	api.Post("/designs/:designId/describe", h.HandleDescribeDesign)
	api.Post("/predictions", h.HandleCreatePrediction)
	api.Get("/predictions", h.HandleListPredictions)
	api.Get("/predictions/:predictionId", h.HandleGetPrediction)
	api.Post("/forecast", h.HandleGenerateForecast)
	env.app = app
	return env
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	claims := models.JwtClaims{
		Email: userID + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends a request as userID (anonymous when empty) and decodes the envelope.
func (e *testEnv) do(t *testing.T, method, path, userID string, body io.Reader, contentType string) (*http.Response, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	if userID != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tokenFor(t, userID))
	}
	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func (e *testEnv) doJSON(t *testing.T, method, path, userID string, payload any) (*http.Response, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	return e.do(t, method, path, userID, body, fiber.MIMEApplicationJSON)
}
