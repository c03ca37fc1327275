package bridge

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"ebay-stock-bridge/internal/domain"
	"ebay-stock-bridge/internal/ebay"
	"ebay-stock-bridge/internal/messaging"
)

var upstreamCalls, _ = otel.Meter("bridge").Int64Counter("ebay.api.calls",
	metric.WithDescription("Outbound calls to the eBay inventory API"),
)

// Handler exposes the two inventory operations over HTTP. It adds no
// semantics of its own: every request is one pass-through call to the
// remote API.
type Handler struct {
	client   *ebay.Client
	producer *messaging.Producer
	logger   *slog.Logger
}

func NewHandler(client *ebay.Client, producer *messaging.Producer, logger *slog.Logger) *Handler {
	return &Handler{
		client:   client,
		producer: producer,
		logger:   logger,
	}
}

func (h *Handler) HandleGetStock(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemId")
	if itemID == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	stock, err := h.client.GetStock(r.Context(), itemID)
	h.recordCall(r, "get_stock", err)
	if err != nil {
		h.handleUpstreamError(w, err, "failed to fetch stock", itemID)
		return
	}

	h.logger.Info("stock fetched", "item_id", itemID)
	h.writeJSON(w, http.StatusOK, stock)
}

type updateStockRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) HandleUpdateStock(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemId")
	if itemID == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	var req updateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.client.UpdateStock(r.Context(), itemID, req.Quantity)
	h.recordCall(r, "update_stock", err)
	if err != nil {
		h.handleUpstreamError(w, err, "failed to update stock", itemID)
		return
	}

	if h.producer != nil {
		event := domain.StockUpdatedEvent{
			UpdateID:  uuid.New().String(),
			ItemID:    itemID,
			Quantity:  req.Quantity,
			Timestamp: time.Now().UTC(),
		}
		if err := h.producer.Publish(r.Context(), itemID, event); err != nil {
			h.logger.Error("failed to publish stock updated event", "error", err, "item_id", itemID)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleUpstreamError mirrors the remote API's status and raw body for
// service-reported failures; anything else (transport loss, malformed
// body) is an undifferentiated upstream error.
func (h *Handler) handleUpstreamError(w http.ResponseWriter, err error, msg, itemID string) {
	var apiErr *ebay.APIError
	if errors.As(err, &apiErr) {
		h.logger.Error(msg, "error", err, "item_id", itemID, "status", apiErr.StatusCode)
		h.writeError(w, apiErr.StatusCode, apiErr.Body)
		return
	}

	h.logger.Error(msg, "error", err, "item_id", itemID)
	h.writeError(w, http.StatusBadGateway, "upstream error")
}

func (h *Handler) recordCall(r *http.Request, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	upstreamCalls.Add(r.Context(), 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
		),
	)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
