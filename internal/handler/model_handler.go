package handler

import (
	"examgen/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ModelHandler handles model listing and connectivity requests
type ModelHandler struct {
	modelService *service.ModelService
}

// NewModelHandler creates a new ModelHandler instance
func NewModelHandler(modelService *service.ModelService) *ModelHandler {
	return &ModelHandler{modelService: modelService}
}

// GetFreeModels godoc
// @Summary List free models
// @Description Returns the models that cost nothing to use, sorted by name
// @Tags models
// @Produce json
// @Success 200 {array} dto.ModelInfo
// @Failure 502 {object} middleware.ErrorResponse
// @Router /models/free [get]
func (h *ModelHandler) GetFreeModels(c *fiber.Ctx) error {
	models, err := h.modelService.GetFreeModels(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(models)
}

// TestConnection godoc
// @Summary Test generation service connectivity
// @Description Sends a minimal completion request to verify the credential
// @Tags models
// @Produce json
// @Success 200 {object} dto.ConnectionStatus
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /models/test [get]
func (h *ModelHandler) TestConnection(c *fiber.Ctx) error {
	status, err := h.modelService.TestConnection(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(status)
}
