package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"promptboard/internal/drag"
	"promptboard/internal/handler"
	"promptboard/internal/model"
	"promptboard/internal/prompt"
	"promptboard/internal/repository"
	"promptboard/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Мок генератора промптов
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, title, description string) (string, error) {
	args := m.Called(ctx, title, description)
	return args.String(0), args.Error(1)
}

type boardFixture struct {
	router    *gin.Engine
	store     *store.Store
	repo      *repository.MemoryRepository
	generator *MockGenerator
}

func setupBoardTest(t *testing.T) *boardFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepository()
	seed := model.DefaultBoard()
	seed.Columns[0].Cards = []model.Card{{ID: "c1", Title: "Write docs", Description: "for the board"}}
	require.NoError(t, repo.Save(context.Background(), store.DefaultKey, seed))

	s := store.Open(context.Background(), repo)
	gen := new(MockGenerator)
	h := handler.NewBoardHandler(s, drag.NewResolver(s), gen, nil)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/board", h.GetBoard)
	api.POST("/columns", h.CreateColumn)
	api.PATCH("/columns/:columnId", h.RenameColumn)
	api.POST("/columns/:columnId/cards", h.CreateCard)
	api.PUT("/columns/:columnId/cards/:cardId", h.UpdateCard)
	api.DELETE("/columns/:columnId/cards/:cardId", h.DeleteCard)
	api.POST("/cards/:cardId/move", h.MoveCard)
	api.POST("/cards/:cardId/generate-prompt", h.GenerateCardPrompt)
	api.POST("/drag", h.Drag)

	return &boardFixture{router: r, store: s, repo: repo, generator: gen}
}

func (f *boardFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	return resp
}

func decodeBoard(t *testing.T, resp *httptest.ResponseRecorder) model.Board {
	t.Helper()
	var board model.Board
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &board))
	return board
}

func TestGetBoard(t *testing.T) {
	f := setupBoardTest(t)

	resp := f.do(t, "GET", "/api/board", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	board := decodeBoard(t, resp)
	require.Len(t, board.Columns, 3)
	assert.Equal(t, "c1", board.Columns[0].Cards[0].ID)
}

func TestCreateCard_Success(t *testing.T) {
	f := setupBoardTest(t)

	resp := f.do(t, "POST", "/api/columns/in-progress/cards", handler.CardRequest{Title: "Add login page", Notes: "n"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	board := decodeBoard(t, resp)
	require.Len(t, board.Columns[1].Cards, 1)
	assert.Equal(t, "Add login page", board.Columns[1].Cards[0].Title)
	assert.NotEmpty(t, board.Columns[1].Cards[0].ID)

	stored, err := f.repo.Load(context.Background(), store.DefaultKey)
	require.NoError(t, err)
	assert.Len(t, stored.Columns[1].Cards, 1)
}

func TestCreateCard_EmptyTitle(t *testing.T) {
	f := setupBoardTest(t)
	before := f.store.Snapshot()

	resp := f.do(t, "POST", "/api/columns/todo/cards", handler.CardRequest{Title: "", Description: "desc"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, "title is required", response["error"])
	assert.Equal(t, before, f.store.Snapshot())
}

func TestCreateCard_InvalidJSON(t *testing.T) {
	f := setupBoardTest(t)
	req, _ := http.NewRequest("POST", "/api/columns/todo/cards", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	f.router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid request")
}

func TestUpdateCard(t *testing.T) {
	f := setupBoardTest(t)

	resp := f.do(t, "PUT", "/api/columns/todo/cards/c1", handler.CardRequest{Title: "Write final docs", Description: "d"})

	assert.Equal(t, http.StatusOK, resp.Code)
	card := decodeBoard(t, resp).Columns[0].Cards[0]
	assert.Equal(t, "Write final docs", card.Title)
	assert.Equal(t, "d", card.Description)
}

func TestDeleteCard_WrongColumnIsNoop(t *testing.T) {
	f := setupBoardTest(t)
	before := f.store.Snapshot()

	resp := f.do(t, "DELETE", "/api/columns/completed/cards/c1", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, before, decodeBoard(t, resp))
}

func TestMoveCard(t *testing.T) {
	f := setupBoardTest(t)

	resp := f.do(t, "POST", "/api/cards/c1/move", handler.MoveCardRequest{ColumnID: "completed"})

	assert.Equal(t, http.StatusOK, resp.Code)
	board := decodeBoard(t, resp)
	assert.Empty(t, board.Columns[0].Cards)
	assert.Equal(t, "c1", board.Columns[2].Cards[0].ID)
}

func TestMoveCard_MissingColumn(t *testing.T) {
	f := setupBoardTest(t)

	resp := f.do(t, "POST", "/api/cards/c1/move", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDrag(t *testing.T) {
	f := setupBoardTest(t)

	resp := f.do(t, "POST", "/api/drag", drag.EndEvent{ActiveID: "c1", OverID: "in-progress"})

	assert.Equal(t, http.StatusOK, resp.Code)
	var out handler.DragResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.True(t, out.Moved)
	assert.Equal(t, "c1", out.Board.Columns[1].Cards[0].ID)
}

func TestDrag_Cancelled(t *testing.T) {
	f := setupBoardTest(t)

	resp := f.do(t, "POST", "/api/drag", drag.EndEvent{ActiveID: "c1"})

	assert.Equal(t, http.StatusOK, resp.Code)
	var out handler.DragResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.False(t, out.Moved)
	assert.Len(t, out.Board.Columns[0].Cards, 1)
}

func TestColumns(t *testing.T) {
	f := setupBoardTest(t)

	resp := f.do(t, "POST", "/api/columns", handler.ColumnRequest{Title: "Review"})
	assert.Equal(t, http.StatusCreated, resp.Code)
	board := decodeBoard(t, resp)
	require.Len(t, board.Columns, 4)
	newID := board.Columns[3].ID

	resp = f.do(t, "PATCH", "/api/columns/"+newID, handler.ColumnRequest{Title: "QA"})
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "QA", decodeBoard(t, resp).Columns[3].Title)

	resp = f.do(t, "POST", "/api/columns", handler.ColumnRequest{Title: "   "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGenerateCardPrompt_Success(t *testing.T) {
	f := setupBoardTest(t)
	f.generator.On("Generate", mock.Anything, "Write docs", "for the board").Return("Objective: docs", nil)

	resp := f.do(t, "POST", "/api/cards/c1/generate-prompt", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	var out handler.CardPromptResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.NotNil(t, out.Prompt)
	assert.Equal(t, "Objective: docs", *out.Prompt)
	card, _, ok := f.store.FindCard("c1")
	require.True(t, ok)
	assert.Equal(t, "Objective: docs", card.GeneratedPrompt)
	f.generator.AssertExpectations(t)
}

func TestGenerateCardPrompt_MissingCredential(t *testing.T) {
	f := setupBoardTest(t)
	f.generator.On("Generate", mock.Anything, "Write docs", "for the board").Return("", prompt.ErrNotConfigured)

	resp := f.do(t, "POST", "/api/cards/c1/generate-prompt", nil)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "OpenAI API key not configured")
	card, _, _ := f.store.FindCard("c1")
	assert.Empty(t, card.GeneratedPrompt)
}

func TestGenerateCardPrompt_UpstreamFailure(t *testing.T) {
	f := setupBoardTest(t)
	f.generator.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("", &prompt.UpstreamError{StatusCode: 503, Message: "overloaded"})

	resp := f.do(t, "POST", "/api/cards/c1/generate-prompt", nil)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "Failed to generate prompt: upstream returned 503: overloaded")
}

func TestGenerateCardPrompt_UnknownCard(t *testing.T) {
	f := setupBoardTest(t)

	resp := f.do(t, "POST", "/api/cards/ghost/generate-prompt", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	var out handler.CardPromptResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Nil(t, out.Prompt)
	f.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

// failingStore отдает ошибку хранилища на любую операцию
type failingStore struct {
	handler.BoardStore
}

func (failingStore) AddColumn(ctx context.Context, title string) (model.Board, error) {
	return model.Board{}, errors.New("boom")
}

func TestCreateColumn_UnexpectedError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := handler.NewBoardHandler(failingStore{}, nil, nil, nil)
	r := gin.New()
	r.POST("/api/columns", h.CreateColumn)

	req, _ := http.NewRequest("POST", "/api/columns", bytes.NewBufferString(`{"title":"Review"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "Failed to update board")
}
