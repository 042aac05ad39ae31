package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthResponse — ответ /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

const healthTimeout = 2 * time.Second

// Health проверяет доступность БД (и Redis, если включён отзыв токенов).
//
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.Svc.Health.Check(ctx); err != nil {
		h.Log.Warn("health check failed", zap.Error(err))
		WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
