package handler

import (
	"context"
	"errors"
	"net/http"

	"promptboard/internal/drag"
	"promptboard/internal/model"
	"promptboard/internal/prompt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BoardStore is the board state the handlers operate on.
type BoardStore interface {
	Snapshot() model.Board
	FindCard(cardID string) (model.Card, string, bool)
	MoveCard(ctx context.Context, cardID, destinationColumnID string) (model.Board, error)
	AddCard(ctx context.Context, columnID, title, description, notes string) (model.Board, error)
	UpdateCard(ctx context.Context, columnID, cardID, title, description, notes string) (model.Board, error)
	DeleteCard(ctx context.Context, columnID, cardID string) (model.Board, error)
	AddColumn(ctx context.Context, title string) (model.Board, error)
	RenameColumn(ctx context.Context, columnID, title string) (model.Board, error)
	SetGeneratedPrompt(ctx context.Context, columnID, cardID, prompt string) (model.Board, error)
}

type DragResolver interface {
	Resolve(ctx context.Context, ev drag.EndEvent) (model.Board, bool, error)
}

type BoardHandler struct {
	store     BoardStore
	resolver  DragResolver
	generator prompt.Generator
	logger    *zap.Logger
}

func NewBoardHandler(store BoardStore, resolver DragResolver, generator prompt.Generator, logger *zap.Logger) *BoardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardHandler{
		store:     store,
		resolver:  resolver,
		generator: generator,
		logger:    logger,
	}
}

// ColumnRequest представляет запрос на создание или переименование колонки
type ColumnRequest struct {
	Title string `json:"title"`
}

// CardRequest представляет запрос на создание или обновление карточки
type CardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

// MoveCardRequest представляет запрос на перемещение карточки
type MoveCardRequest struct {
	ColumnID string `json:"columnId" binding:"required"`
}

// DragResponse представляет результат завершения перетаскивания
type DragResponse struct {
	Board model.Board `json:"board"`
	Moved bool        `json:"moved"`
}

// CardPromptResponse представляет доску после генерации промпта для карточки
type CardPromptResponse struct {
	Board  model.Board `json:"board"`
	Prompt *string     `json:"prompt"`
}

// GetBoard godoc
// @Summary  Current board
// @Tags     Board
// @Produce  json
// @Success  200 {object} model.Board
// @Security BearerAuth
// @Router   /api/board [get]
func (h *BoardHandler) GetBoard(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot())
}

// CreateColumn godoc
// @Summary  Add a column at the end of the board
// @Tags     Columns
// @Accept   json
// @Produce  json
// @Param    request body ColumnRequest true "Column"
// @Success  201 {object} model.Board
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /api/columns [post]
func (h *BoardHandler) CreateColumn(c *gin.Context) {
	var req ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.store.AddColumn(c.Request.Context(), req.Title)
	if err != nil {
		h.writeBoardError(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

// RenameColumn godoc
// @Summary  Rename a column
// @Tags     Columns
// @Accept   json
// @Produce  json
// @Param    columnId path string true "Column ID"
// @Param    request body ColumnRequest true "Column"
// @Success  200 {object} model.Board
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /api/columns/{columnId} [patch]
func (h *BoardHandler) RenameColumn(c *gin.Context) {
	var req ColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.store.RenameColumn(c.Request.Context(), c.Param("columnId"), req.Title)
	if err != nil {
		h.writeBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// CreateCard godoc
// @Summary  Add a card to the end of a column
// @Tags     Cards
// @Accept   json
// @Produce  json
// @Param    columnId path string true "Column ID"
// @Param    request body CardRequest true "Card"
// @Success  201 {object} model.Board
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /api/columns/{columnId}/cards [post]
func (h *BoardHandler) CreateCard(c *gin.Context) {
	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.store.AddCard(c.Request.Context(), c.Param("columnId"), req.Title, req.Description, req.Notes)
	if err != nil {
		h.writeBoardError(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

// UpdateCard godoc
// @Summary  Edit a card
// @Tags     Cards
// @Accept   json
// @Produce  json
// @Param    columnId path string true "Column ID"
// @Param    cardId path string true "Card ID"
// @Param    request body CardRequest true "Card"
// @Success  200 {object} model.Board
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /api/columns/{columnId}/cards/{cardId} [put]
func (h *BoardHandler) UpdateCard(c *gin.Context) {
	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.store.UpdateCard(c.Request.Context(), c.Param("columnId"), c.Param("cardId"), req.Title, req.Description, req.Notes)
	if err != nil {
		h.writeBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// DeleteCard godoc
// @Summary  Delete a card
// @Tags     Cards
// @Produce  json
// @Param    columnId path string true "Column ID"
// @Param    cardId path string true "Card ID"
// @Success  200 {object} model.Board
// @Security BearerAuth
// @Router   /api/columns/{columnId}/cards/{cardId} [delete]
func (h *BoardHandler) DeleteCard(c *gin.Context) {
	board, err := h.store.DeleteCard(c.Request.Context(), c.Param("columnId"), c.Param("cardId"))
	if err != nil {
		h.writeBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// MoveCard godoc
// @Summary  Move a card to the end of another column
// @Tags     Cards
// @Accept   json
// @Produce  json
// @Param    cardId path string true "Card ID"
// @Param    request body MoveCardRequest true "Destination"
// @Success  200 {object} model.Board
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /api/cards/{cardId}/move [post]
func (h *BoardHandler) MoveCard(c *gin.Context) {
	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.store.MoveCard(c.Request.Context(), c.Param("cardId"), req.ColumnID)
	if err != nil {
		h.writeBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// Drag godoc
// @Summary  Apply the end of a drag gesture
// @Tags     Cards
// @Accept   json
// @Produce  json
// @Param    request body drag.EndEvent true "Drag end event"
// @Success  200 {object} DragResponse
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /api/drag [post]
func (h *BoardHandler) Drag(c *gin.Context) {
	var ev drag.EndEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, moved, err := h.resolver.Resolve(c.Request.Context(), ev)
	if err != nil {
		h.writeBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, DragResponse{Board: board, Moved: moved})
}

// GenerateCardPrompt godoc
// @Summary  Generate and store an implementation prompt for a card
// @Tags     Cards
// @Produce  json
// @Param    cardId path string true "Card ID"
// @Success  200 {object} CardPromptResponse
// @Failure  400 {object} map[string]string
// @Failure  500 {object} map[string]string
// @Security BearerAuth
// @Router   /api/cards/{cardId}/generate-prompt [post]
func (h *BoardHandler) GenerateCardPrompt(c *gin.Context) {
	cardID := c.Param("cardId")
	card, columnID, ok := h.store.FindCard(cardID)
	if !ok {
		c.JSON(http.StatusOK, CardPromptResponse{Board: h.store.Snapshot()})
		return
	}

	// Генерация идет без блокировки доски: другие изменения могут пройти раньше
	text, err := h.generator.Generate(c.Request.Context(), card.Title, card.Description)
	if err != nil {
		h.logger.Warn("prompt generation failed", zap.String("card_id", cardID), zap.Error(err))
		writePromptError(c, err)
		return
	}

	board, err := h.store.SetGeneratedPrompt(c.Request.Context(), columnID, cardID, text)
	if err != nil {
		h.writeBoardError(c, err)
		return
	}
	c.JSON(http.StatusOK, CardPromptResponse{Board: board, Prompt: &text})
}

func (h *BoardHandler) writeBoardError(c *gin.Context, err error) {
	if errors.Is(err, model.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("board operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
}
