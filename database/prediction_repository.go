package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fashionflow/models"

	"github.com/jackc/pgx/v5"
)

// ErrPredictionNotFound is returned when a prediction does not exist or
// belongs to another user.
var ErrPredictionNotFound = errors.New("prediction not found")

// PredictionRepository stores the prediction history of each user.
type PredictionRepository struct {
	db DBTX
}

func NewPredictionRepository(db DBTX) *PredictionRepository {
	return &PredictionRepository{db: db}
}

const predictionColumns = `id, user_id, design_id, description, location, age_group, gender,
	trend_label, sentiment, confidence_level, analysis_text, key_factors, ai_available, forecast, created_at`

// Create inserts rec and sets its CreatedAt from the database.
func (r *PredictionRepository) Create(ctx context.Context, rec *models.PredictionRecord) error {
	forecastJSON, err := json.Marshal(rec.Forecast)
	if err != nil {
		return fmt.Errorf("failed to encode forecast: %w", err)
	}
	keyFactors := rec.Prediction.KeyFactors
	if keyFactors == nil {
		keyFactors = []string{}
	}

	query := `
		INSERT INTO predictions (id, user_id, design_id, description, location, age_group, gender,
			trend_label, sentiment, confidence_level, analysis_text, key_factors, ai_available, forecast)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at
	`
	err = r.db.QueryRow(ctx, query,
		rec.ID, rec.UserID, rec.DesignID, rec.Description, rec.Location, rec.AgeGroup, rec.Gender,
		rec.Prediction.TrendLabel, rec.Prediction.Sentiment, rec.Prediction.ConfidenceLevel,
		rec.Prediction.AnalysisText, keyFactors, rec.AIAvailable, forecastJSON,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

// ListByUser returns one page of a user's predictions, newest first, and the
// total number of predictions the user has.
func (r *PredictionRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.PredictionRecord, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM predictions WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count predictions: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + predictionColumns + `
		FROM predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	records := make([]models.PredictionRecord, 0)
	for rows.Next() {
		rec, err := scanPrediction(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read predictions: %w", err)
	}
	return records, total, nil
}

// GetByID returns a single prediction owned by userID.
func (r *PredictionRepository) GetByID(ctx context.Context, userID, id string) (*models.PredictionRecord, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1 AND user_id = $2`
	rec, err := scanPrediction(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	return rec, nil
}

func scanPrediction(row pgx.Row) (*models.PredictionRecord, error) {
	var (
		rec          models.PredictionRecord
		forecastJSON []byte
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.DesignID, &rec.Description, &rec.Location, &rec.AgeGroup, &rec.Gender,
		&rec.Prediction.TrendLabel, &rec.Prediction.Sentiment, &rec.Prediction.ConfidenceLevel,
		&rec.Prediction.AnalysisText, &rec.Prediction.KeyFactors, &rec.AIAvailable, &forecastJSON, &rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan prediction: %w", err)
	}
	if err := json.Unmarshal(forecastJSON, &rec.Forecast); err != nil {
		return nil, fmt.Errorf("failed to decode stored forecast: %w", err)
	}
	return &rec, nil
}
