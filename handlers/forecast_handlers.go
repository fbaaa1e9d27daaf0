package handlers

import (
	"fashionflow/forecast"
	"fashionflow/models"

	"github.com/gofiber/fiber/v2"
)

// HandleGenerateForecast turns raw trend signals into a simulated sales
// forecast without calling the model.
// POST /api/v1/forecast
func (h *Handlers) HandleGenerateForecast(c *fiber.Ctx) error {
	var req models.ForecastRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	series := h.forecaster.Generate(forecast.Input{
		TrendLabel:      req.TrendLabel,
		Sentiment:       req.Sentiment,
		ConfidenceLevel: req.ConfidenceLevel,
		Location:        req.Location,
		AgeGroup:        req.AgeGroup,
		Gender:          req.Gender,
	})

	return c.JSON(fiber.Map{"status": "success", "data": models.SalesForecastResponse{
		ReportName:  "5-Month Sales Forecast",
		GeneratedAt: h.now().UTC(),
		Forecast:    toForecastPoints(series),
	}})
}
