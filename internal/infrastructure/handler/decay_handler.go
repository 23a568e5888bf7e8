// Package handler exposes the decay service over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/damon-houk/emission-decay/internal/application/service"
	"github.com/damon-houk/emission-decay/internal/domain/decay"
	"github.com/damon-houk/emission-decay/internal/domain/entity"
	"github.com/damon-houk/emission-decay/internal/domain/repository"
	"github.com/damon-houk/emission-decay/internal/infrastructure/logger"
	"github.com/damon-houk/emission-decay/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// DecayHandler handles HTTP requests for decay calculations
type DecayHandler struct {
	service *service.DecayService
	logger  logger.Logger
}

// NewDecayHandler creates a new decay handler
func NewDecayHandler(service *service.DecayService, log logger.Logger) *DecayHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &DecayHandler{
		service: service,
		logger:  log,
	}
}

// NewRouter builds the router with every decay route and the middleware chain
func NewRouter(h *DecayHandler, log logger.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.RecoveryMiddleware(log),
	)
	h.RegisterRoutes(router)
	return router
}

// RegisterRoutes registers the decay handler routes
func (h *DecayHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/decay", h.Quote).Methods(http.MethodGet)
	router.HandleFunc("/calculations", h.CreateCalculation).Methods(http.MethodPost)
	router.HandleFunc("/calculations", h.ListCalculations).Methods(http.MethodGet)
	router.HandleFunc("/calculations/{id}", h.GetCalculation).Methods(http.MethodGet)
	router.HandleFunc("/rewards/{index}", h.BlockReward).Methods(http.MethodGet)

	h.logger.Info("Decay routes registered", map[string]interface{}{
		"routes": []string{
			"GET /decay",
			"POST /calculations",
			"GET /calculations",
			"GET /calculations/{id}",
			"GET /rewards/{index}",
		},
	})
}

// Quote handles GET /decay?amount=&rate=&date=&mode=
func (h *DecayHandler) Quote(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	amount, err := strconv.ParseFloat(query.Get("amount"), 64)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid amount",
			"The 'amount' query parameter must be a number", http.StatusBadRequest, requestID)
		return
	}

	rate, err := strconv.ParseFloat(query.Get("rate"), 64)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid rate",
			"The 'rate' query parameter must be a number", http.StatusBadRequest, requestID)
		return
	}

	date := query.Get("date")
	if date == "" {
		sendErrorResponse(w, h.logger, "Missing date parameter",
			"The 'date' query parameter is required", http.StatusBadRequest, requestID)
		return
	}

	quote, err := h.service.Quote(r.Context(), service.QuoteRequest{
		InitialAmount: amount,
		Rate:          rate,
		TargetDate:    date,
		Mode:          query.Get("mode"),
	})
	if err != nil {
		h.handleServiceError(w, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, toQuoteResponse(quote, date))
}

// CreateCalculation handles the creation of a new stored calculation
func (h *DecayHandler) CreateCalculation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req CreateCalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	calc, err := h.service.CreateCalculation(r.Context(), service.QuoteRequest{
		InitialAmount: req.InitialAmount,
		Rate:          req.Rate,
		TargetDate:    req.TargetDate,
		Mode:          req.Mode,
	}, service.SourceAPI)
	if err != nil {
		h.handleServiceError(w, err, requestID)
		return
	}

	sendJSON(w, http.StatusCreated, toCalculationResponse(calc, req.TargetDate))
}

// GetCalculation handles retrieving a calculation by ID
func (h *DecayHandler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	calc, err := h.service.GetCalculation(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, toCalculationResponse(calc, ""))
}

// ListCalculations handles listing every stored calculation
func (h *DecayHandler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	calcs, err := h.service.ListCalculations(r.Context())
	if err != nil {
		h.handleServiceError(w, err, requestID)
		return
	}

	resp := make([]CalculationResponse, 0, len(calcs))
	for _, calc := range calcs {
		resp = append(resp, toCalculationResponse(calc, ""))
	}
	sendJSON(w, http.StatusOK, resp)
}

// BlockReward handles GET /rewards/{index}
func (h *DecayHandler) BlockReward(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	index, err := strconv.ParseUint(mux.Vars(r)["index"], 10, 32)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid block index",
			"The block index must be an unsigned 32-bit integer", http.StatusBadRequest, requestID)
		return
	}

	reward := h.service.BlockReward(r.Context(), uint32(index))
	sendJSON(w, http.StatusOK, BlockRewardResponse{
		Index:   reward.Index,
		Periods: reward.Periods,
		Reward:  reward.Reward,
	})
}

func (h *DecayHandler) handleServiceError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.logger.Warn("Invalid calculation input", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid input", err.Error(), http.StatusBadRequest, requestID)
	case errors.Is(err, repository.ErrNotFound):
		sendErrorResponse(w, h.logger, "Calculation not found",
			"The requested calculation could not be found", http.StatusNotFound, requestID)
	default:
		h.logger.Error("Unexpected error in decay handler", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred. Please try again later.", http.StatusInternalServerError, requestID)
	}
}

// formatTarget prints midnight targets as plain dates
func formatTarget(t time.Time) string {
	t = t.UTC()
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

func toQuoteResponse(q *entity.Quote, requested string) QuoteResponse {
	target := formatTarget(q.TargetDate)
	if requested == "" {
		requested = target
	}

	return QuoteResponse{
		Mode:          q.Mode,
		InitialAmount: q.InitialAmount,
		Rate:          q.Rate,
		TargetDate:    target,
		Periods:       q.Periods,
		Amount:        q.Amount,
		Formatted:     decay.FormatAmount(q.Amount),
		Line:          decay.FormatLine(requested, q.Amount),
	}
}

func toCalculationResponse(c *entity.Calculation, requested string) CalculationResponse {
	quote := c.Quote()
	return CalculationResponse{
		ID:            c.ID,
		Source:        c.Source,
		CreatedAt:     c.CreatedAt.UTC().Format(time.RFC3339),
		QuoteResponse: toQuoteResponse(&quote, requested),
	}
}

func sendJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	sendJSON(w, statusCode, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}
