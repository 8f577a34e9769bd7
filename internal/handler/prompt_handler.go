package handler

import (
	"errors"
	"net/http"
	"strings"

	"promptboard/internal/prompt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PromptHandler struct {
	generator prompt.Generator
	logger    *zap.Logger
}

func NewPromptHandler(generator prompt.Generator, logger *zap.Logger) *PromptHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromptHandler{generator: generator, logger: logger}
}

// GeneratePromptRequest представляет запрос на генерацию промпта
type GeneratePromptRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GeneratePromptResponse представляет сгенерированный промпт
type GeneratePromptResponse struct {
	Prompt string `json:"prompt"`
}

// Generate godoc
// @Summary  Generate an implementation prompt from a title and description
// @Tags     Prompts
// @Accept   json
// @Produce  json
// @Param    request body GeneratePromptRequest true "Card text"
// @Success  200 {object} GeneratePromptResponse
// @Failure  400 {object} map[string]string
// @Failure  500 {object} map[string]string
// @Security BearerAuth
// @Router   /api/generate-prompt [post]
func (h *PromptHandler) Generate(c *gin.Context) {
	var req GeneratePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card title is required"})
		return
	}

	text, err := h.generator.Generate(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		h.logger.Warn("prompt generation failed", zap.Error(err))
		writePromptError(c, err)
		return
	}
	c.JSON(http.StatusOK, GeneratePromptResponse{Prompt: text})
}

func writePromptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, prompt.ErrEmptyTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card title is required"})
	case errors.Is(err, prompt.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OpenAI API key not configured"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate prompt: " + err.Error()})
	}
}
