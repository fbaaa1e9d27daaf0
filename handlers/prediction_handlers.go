package handlers

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"fashionflow/database"
	"fashionflow/forecast"
	"fashionflow/middleware"
	"fashionflow/models"
	"fashionflow/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	maxDescriptionLength = 4000
	maxDescriptorLength  = 200
)

// validatePredictionRequest returns a client-facing message, or "" when the
// request is acceptable.
func validatePredictionRequest(req *models.PredictionRequest) string {
	req.Description = strings.TrimSpace(req.Description)
	req.DesignID = strings.TrimSpace(req.DesignID)
	req.Location = utils.CollapseSpaces(req.Location)
	req.AgeGroup = utils.CollapseSpaces(req.AgeGroup)
	req.Gender = utils.CollapseSpaces(req.Gender)

	if req.Description == "" && req.DesignID == "" {
		return "description or designId is required"
	}
	if req.DesignID != "" {
		if _, err := uuid.Parse(req.DesignID); err != nil {
			return "Invalid design id"
		}
	}
	if utf8.RuneCountInString(req.Description) > maxDescriptionLength {
		return "description is too long"
	}
	for _, field := range []string{req.Location, req.AgeGroup, req.Gender} {
		if utf8.RuneCountInString(field) > maxDescriptorLength {
			return "location, ageGroup and gender must be at most 200 characters"
		}
	}
	return ""
}

// HandleCreatePrediction asks the model for a market-trend prediction and
// turns it into a simulated sales forecast.
// POST /api/v1/predictions
func (h *Handlers) HandleCreatePrediction(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}

	var req models.PredictionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if msg := validatePredictionRequest(&req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msg})
	}

	ctx := c.UserContext()
	log := logrus.WithFields(logrus.Fields{"user_id": userID, "request_id": middleware.RequestID(c)})

	// A referenced design must exist and belong to the caller, even when a
	// description is supplied and the image is not analysed.
	var design *models.Design
	if req.DesignID != "" {
		var err error
		design, err = h.designs.Get(ctx, userID, req.DesignID)
		if err != nil {
			return designLookupError(c, err)
		}
	}

	aiAvailable := true
	description := req.Description
	if description == "" {
		generated, err := h.analyzer.DescribeDesign(ctx, design.MimeType, design.Data)
		if err != nil {
			log.WithError(err).Warn("⚠️ [PREDICTIONS] Description unavailable, falling back to neutral outlook")
			aiAvailable = false
		} else {
			description = generated.Description
		}
	}

	prediction := models.NeutralPrediction()
	if aiAvailable {
		prediction, aiAvailable = h.predictTrend(ctx, log, models.TrendRequest{
			Description: description,
			Location:    req.Location,
			AgeGroup:    req.AgeGroup,
			Gender:      req.Gender,
		})
	}

	series := h.forecaster.Generate(forecast.Input{
		TrendLabel:      prediction.TrendLabel,
		Sentiment:       prediction.Sentiment,
		ConfidenceLevel: prediction.ConfidenceLevel,
		Location:        req.Location,
		AgeGroup:        req.AgeGroup,
		Gender:          req.Gender,
	})
	points := toForecastPoints(series)

	record := &models.PredictionRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Description: description,
		Location:    req.Location,
		AgeGroup:    req.AgeGroup,
		Gender:      req.Gender,
		Prediction:  prediction,
		AIAvailable: aiAvailable,
		Forecast:    points,
	}
	if design != nil {
		designID := design.ID
		record.DesignID = &designID
	}
	if err := h.predictions.Create(ctx, record); err != nil {
		log.WithError(err).Error("❌ [PREDICTIONS] Failed to save prediction history")
	}

	log.WithFields(logrus.Fields{
		"prediction_id": record.ID,
		"trend":         prediction.TrendLabel,
		"ai_available":  aiAvailable,
	}).Info("✅ [PREDICTIONS] Prediction generated")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": models.PredictionResponse{
		ID:          record.ID,
		Prediction:  prediction,
		AIAvailable: aiAvailable,
		Description: description,
		Forecast:    points,
		GeneratedAt: h.now().UTC(),
	}})
}

// predictTrend calls the model and substitutes the neutral outlook on failure.
func (h *Handlers) predictTrend(ctx context.Context, log *logrus.Entry, req models.TrendRequest) (models.TrendPrediction, bool) {
	prediction, err := h.analyzer.PredictTrend(ctx, req)
	if err != nil || prediction == nil {
		log.WithError(err).Warn("⚠️ [PREDICTIONS] Trend prediction unavailable, using neutral defaults")
		return models.NeutralPrediction(), false
	}
	return prediction.WithDefaults(), true
}

// HandleListPredictions returns the caller's prediction history.
// GET /api/v1/predictions
func (h *Handlers) HandleListPredictions(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}

	page, pageSize := utils.NormalizePage(c.QueryInt("page", 1), c.QueryInt("pageSize", 10))

	records, total, err := h.predictions.ListByUser(c.UserContext(), userID, page, pageSize)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("❌ [PREDICTIONS] Error listing predictions")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve predictions"})
	}

	p := utils.CreatePagination(total, page, pageSize)
	return c.JSON(fiber.Map{"status": "success", "data": models.PaginatedPredictionsResponse{
		Data: records,
		Pagination: models.PaginationInfo{
			TotalItems:  p.TotalItems,
			TotalPages:  p.TotalPages,
			CurrentPage: p.CurrentPage,
			PageSize:    p.PageSize,
		},
	}})
}

// HandleGetPrediction returns one entry of the caller's history.
// GET /api/v1/predictions/:predictionId
func (h *Handlers) HandleGetPrediction(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}
	predictionID := c.Params("predictionId")
	if _, err := uuid.Parse(predictionID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid prediction id"})
	}

	record, err := h.predictions.GetByID(c.UserContext(), userID, predictionID)
	if err != nil {
		if errors.Is(err, database.ErrPredictionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Prediction not found"})
		}
		logrus.WithError(err).WithField("prediction_id", predictionID).Error("❌ [PREDICTIONS] Error loading prediction")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve prediction"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": record})
}
