package routes

import (
	"fashionflow/handlers"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application. auth guards every
// /api/v1 route and aiLimit additionally guards the routes that call the
// generative model.
func SetupRoutes(app *fiber.App, h *handlers.Handlers, auth, aiLimit fiber.Handler) {
	app.Get("/health", h.HandleHealth)
	app.Get("/version", h.HandleVersion)

	api := app.Group("/api/v1", auth)

	// --- Design Routes ---
	designs := api.Group("/designs")
	designs.Post("/", h.HandleUploadDesign)
	designs.Get("/:designId", h.HandleGetDesign)
	designs.Delete("/:designId", h.HandleDeleteDesign)
	designs.Post("/:designId/describe", aiLimit, h.HandleDescribeDesign)

	// --- Prediction Routes ---
	predictions := api.Group("/predictions")
	predictions.Post("/", aiLimit, h.HandleCreatePrediction)
	predictions.Get("/", h.HandleListPredictions)
	predictions.Get("/:predictionId", h.HandleGetPrediction)

	// --- Forecast Routes ---
	api.Post("/forecast", h.HandleGenerateForecast)
}
