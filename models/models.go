package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

// JwtClaims are the claims of an access token issued by the identity service.
// The subject is the user id.
type JwtClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// --- Designs ---

// Design is an uploaded fashion-design image held temporarily for analysis.
type Design struct {
	ID        string    `json:"designId"`
	OwnerID   string    `json:"ownerId"`
	MimeType  string    `json:"mimeType"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Data      []byte    `json:"-"`
}

// UploadDesignRequest is the JSON alternative to a multipart upload.
type UploadDesignRequest struct {
	// ImageData is a data URL, e.g. "data:image/png;base64,...".
	ImageData string `json:"imageData"`
}

// --- Predictions ---

// PredictionRequest asks for a trend prediction and forecast for a design.
type PredictionRequest struct {
	Description string `json:"description"`
	DesignID    string `json:"designId,omitempty"`
	Location    string `json:"location"`
	AgeGroup    string `json:"ageGroup"`
	Gender      string `json:"gender"`
}

// PredictionRecord is one entry of a user's prediction history.
type PredictionRecord struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	DesignID    *string         `json:"designId,omitempty"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	AgeGroup    string          `json:"ageGroup"`
	Gender      string          `json:"gender"`
	Prediction  TrendPrediction `json:"prediction"`
	AIAvailable bool            `json:"aiAvailable"`
	Forecast    []ForecastPoint `json:"forecast"`
	CreatedAt   time.Time       `json:"createdAt"`
}
