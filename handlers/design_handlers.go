package handlers

import (
	"errors"
	"io"
	"strings"

	"fashionflow/database"
	"fashionflow/middleware"
	"fashionflow/models"
	"fashionflow/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HandleUploadDesign stores an uploaded design image for later analysis.
// POST /api/v1/designs
func (h *Handlers) HandleUploadDesign(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}

	data, status, msg := readDesignImage(c)
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"status": "error", "message": msg})
	}

	if len(data) > utils.MaxDesignBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"status": "error", "message": "Image exceeds the 5 MiB limit"})
	}
	mimeType, ok := utils.DetectImageType(data)
	if !ok {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"status": "error", "message": "Only PNG, JPEG and WebP images are supported"})
	}

	design, err := h.designs.Save(c.UserContext(), userID, mimeType, data)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("❌ [DESIGNS] Failed to store design")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to store design"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": design})
}

// readDesignImage accepts either a multipart "image" field or a JSON data URL.
// A non-zero status means the request was rejected. The declared content
// type is ignored; the bytes are sniffed by the caller.
func readDesignImage(c *fiber.Ctx) ([]byte, int, string) {
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			return nil, fiber.StatusBadRequest, "Missing image file"
		}
		if fileHeader.Size > utils.MaxDesignBytes {
			return nil, fiber.StatusRequestEntityTooLarge, "Image exceeds the 5 MiB limit"
		}
		file, err := fileHeader.Open()
		if err != nil {
			return nil, fiber.StatusBadRequest, "Failed to read image file"
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, utils.MaxDesignBytes+1))
		if err != nil {
			return nil, fiber.StatusBadRequest, "Failed to read image file"
		}
		return data, 0, ""
	}

	var body models.UploadDesignRequest
	if err := c.BodyParser(&body); err != nil || body.ImageData == "" {
		return nil, fiber.StatusBadRequest, "Invalid request body"
	}
	_, data, err := utils.ParseDataURL(body.ImageData)
	if err != nil {
		return nil, fiber.StatusBadRequest, "Invalid image data format"
	}
	return data, 0, ""
}

// HandleGetDesign returns the metadata of a stored design.
// GET /api/v1/designs/:designId
func (h *Handlers) HandleGetDesign(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}
	designID := c.Params("designId")
	if _, err := uuid.Parse(designID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid design id"})
	}

	design, err := h.designs.Get(c.UserContext(), userID, designID)
	if err != nil {
		return designLookupError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": design})
}

// HandleDeleteDesign removes a stored design before it expires.
// DELETE /api/v1/designs/:designId
func (h *Handlers) HandleDeleteDesign(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}
	designID := c.Params("designId")
	if _, err := uuid.Parse(designID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid design id"})
	}

	if err := h.designs.Delete(c.UserContext(), userID, designID); err != nil {
		return designLookupError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDescribeDesign generates a product description for a stored design.
// POST /api/v1/designs/:designId/describe
func (h *Handlers) HandleDescribeDesign(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Unauthorized"})
	}
	designID := c.Params("designId")
	if _, err := uuid.Parse(designID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid design id"})
	}

	design, err := h.designs.Get(c.UserContext(), userID, designID)
	if err != nil {
		return designLookupError(c, err)
	}

	description, err := h.analyzer.DescribeDesign(c.UserContext(), design.MimeType, design.Data)
	if err != nil {
		logrus.WithError(err).WithField("design_id", designID).Error("❌ [DESIGNS] Error generating description")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": "Failed to generate description from AI"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": description})
}

func designLookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, database.ErrDesignNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Design not found or expired"})
	}
	logrus.WithError(err).Error("❌ [DESIGNS] Failed to load design")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to load design"})
}
