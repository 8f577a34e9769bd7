package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	StatusOk             = "ok"
	StatusDown           = "down"
	healthStorageTimeout = 2 * time.Second
)

// Pinger is implemented by every snapshot repository.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse представляет состояние сервиса
type HealthResponse struct {
	Status            string `json:"status"`
	Storage           string `json:"storage"`
	StorageDriver     string `json:"storage_driver"`
	CurrentSystemTime string `json:"current_system_time"`
}

type HealthHandler struct {
	storage Pinger
	driver  string
}

func NewHealthHandler(storage Pinger, driver string) *HealthHandler {
	return &HealthHandler{storage: storage, driver: driver}
}

// Check godoc
// @Summary  Liveness and storage status
// @Tags     Health
// @Produce  json
// @Success  200 {object} HealthResponse
// @Failure  500 {object} HealthResponse
// @Router   /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthStorageTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:            StatusOk,
		Storage:           StatusOk,
		StorageDriver:     h.driver,
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
	}
	code := http.StatusOK
	if err := h.storage.Ping(ctx); err != nil {
		resp.Storage = StatusDown
		code = http.StatusInternalServerError
	}
	c.JSON(code, resp)
}
