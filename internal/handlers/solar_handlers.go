package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"solar-estimator/internal/cities"
	"solar-estimator/internal/models"
	"solar-estimator/internal/services"
	"solar-estimator/internal/solar"
	"solar-estimator/internal/weather"
	"solar-estimator/pkg/logging"
	"solar-estimator/pkg/metrics"
)

// MaxCompareCities bounds the number of sequential lookups per comparison
const MaxCompareCities = 20

// StatusClientClosedRequest is reported when the caller went away before the
// lookup finished (nginx convention, no net/http constant exists)
const StatusClientClosedRequest = 499

// SolarHandler handles solar estimation API endpoints
type SolarHandler struct {
	solarService *services.SolarService
	catalog      *cities.Catalog
	defaultPanel models.PanelConfig
	logger       *logging.StructuredLogger
	metrics      *metrics.Collector
}

// NewSolarHandler creates a new solar handler
func NewSolarHandler(
	solarService *services.SolarService,
	catalog *cities.Catalog,
	defaultPanel models.PanelConfig,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *SolarHandler {
	return &SolarHandler{
		solarService: solarService,
		catalog:      catalog,
		defaultPanel: defaultPanel,
		logger:       logger,
		metrics:      metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// CitiesResponse lists the cities offered for selection
type CitiesResponse struct {
	Cities []string `json:"cities"`
	Source string   `json:"source"`
	Total  int      `json:"total"`
}

// EstimateResponse echoes the raw inputs next to the estimate
type EstimateResponse struct {
	TemperatureC  float64        `json:"temperature_celsius"`
	CloudPct      float64        `json:"cloud_pct"`
	NominalPowerW float64        `json:"nominal_power_w"`
	EfficiencyPct float64        `json:"efficiency_pct"`
	Estimate      solar.Estimate `json:"estimate"`
}

// GetCities handles GET /api/cities
func (h *SolarHandler) GetCities(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/api/cities")()

	names := h.catalog.Names()
	h.metrics.RecordAPIRequest("/api/cities", r.Method, "200")
	h.sendJSON(w, r, CitiesResponse{
		Cities: names,
		Source: h.catalog.Source(),
		Total:  len(names),
	}, http.StatusOK)
}

// GetSolar handles GET /api/solar
func (h *SolarHandler) GetSolar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("/api/solar")()

	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		h.sendError(w, r, "city is required", http.StatusBadRequest)
		return
	}

	panel, err := h.parsePanel(r)
	if err != nil {
		h.sendError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	assessment, err := h.solarService.Assess(ctx, city, panel)
	if err != nil {
		status, message := classifyError(err)
		h.logger.Error(ctx, "[API_GET_SOLAR_ERROR] Failed to assess city", logging.Fields{
			"city":   city,
			"status": status,
		}, err)
		h.metrics.RecordAPIError(errorType(status), "/api/solar")
		h.sendError(w, r, message, status)
		return
	}

	h.metrics.RecordAPIRequest("/api/solar", r.Method, "200")
	h.sendJSON(w, r, assessment, http.StatusOK)
}

// CompareSolar handles GET /api/solar/compare
func (h *SolarHandler) CompareSolar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("/api/solar/compare")()

	panel, err := h.parsePanel(r)
	if err != nil {
		h.sendError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	selected := splitCities(r.URL.Query().Get("cities"))
	if len(selected) == 0 {
		selected = h.catalog.Names()
	}
	if len(selected) > MaxCompareCities {
		h.sendError(w, r, fmt.Sprintf("at most %d cities can be compared", MaxCompareCities), http.StatusBadRequest)
		return
	}

	comparison, err := h.solarService.Compare(ctx, selected, panel)
	if err != nil {
		status, message := classifyError(err)
		h.logger.Error(ctx, "[API_COMPARE_SOLAR_ERROR] Failed to compare cities", logging.Fields{
			"cities": selected,
		}, err)
		h.metrics.RecordAPIError(errorType(status), "/api/solar/compare")
		h.sendError(w, r, message, status)
		return
	}

	h.metrics.RecordAPIRequest("/api/solar/compare", r.Method, "200")
	h.sendJSON(w, r, comparison, http.StatusOK)
}

// GetEstimate handles GET /api/estimate
func (h *SolarHandler) GetEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("/api/estimate")()

	var values [4]float64
	for i, name := range []string{"temperature", "clouds", "nominal_power", "efficiency"} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			h.sendError(w, r, name+" is required", http.StatusBadRequest)
			return
		}
		v, err := parseFinite(name, raw)
		if err != nil {
			h.sendError(w, r, err.Error(), http.StatusBadRequest)
			return
		}
		values[i] = v
	}

	estimate := h.solarService.EstimateRaw(ctx, values[0], values[1], values[2], values[3])

	h.metrics.RecordAPIRequest("/api/estimate", r.Method, "200")
	h.sendJSON(w, r, EstimateResponse{
		TemperatureC:  values[0],
		CloudPct:      values[1],
		NominalPowerW: values[2],
		EfficiencyPct: values[3],
		Estimate:      estimate,
	}, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *SolarHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, r, status, http.StatusOK)
}

// parsePanel reads nominal_power and efficiency, falling back to the configured defaults
func (h *SolarHandler) parsePanel(r *http.Request) (models.PanelConfig, error) {
	panel := h.defaultPanel
	query := r.URL.Query()

	if raw := query.Get("nominal_power"); raw != "" {
		v, err := parseFinite("nominal_power", raw)
		if err != nil {
			return panel, err
		}
		panel.NominalPowerW = v
	}

	if raw := query.Get("efficiency"); raw != "" {
		v, err := parseFinite("efficiency", raw)
		if err != nil {
			return panel, err
		}
		panel.EfficiencyPct = v
	}

	return panel, panel.Validate()
}

func parseFinite(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q, expected a finite number", name, raw)
	}
	return v, nil
}

func splitCities(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if city := strings.TrimSpace(part); city != "" {
			out = append(out, city)
		}
	}
	return out
}

// classifyError maps service errors to an HTTP status and a user facing message
func classifyError(err error) (int, string) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error()
	}

	var apiErr *weather.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsNotFound():
			return http.StatusNotFound, "API Error: " + apiErr.Message
		case apiErr.IsUnauthorized():
			return http.StatusBadGateway, "weather provider rejected the API key (new keys can take up to 2 hours to activate)"
		default:
			return http.StatusBadGateway, "API Error: " + apiErr.Message
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "weather provider timed out"
	}

	if errors.Is(err, context.Canceled) {
		return StatusClientClosedRequest, "request canceled by client"
	}

	return http.StatusBadGateway, "Connection error: weather provider unavailable"
}

func errorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusGatewayTimeout:
		return "upstream_timeout"
	case StatusClientClosedRequest:
		return "client_canceled"
	default:
		return "upstream_error"
	}
}

// observe returns a func that records the request duration for endpoint
func (h *SolarHandler) observe(endpoint string) func() {
	startTime := time.Now()
	return func() {
		h.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}
}

// sendJSON sends a JSON response. Bodies that cannot be encoded, such as
// estimates that overflowed to infinity, become a 500.
func (h *SolarHandler) sendJSON(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	body, err := json.Marshal(data)
	if err != nil {
		h.logger.Error(r.Context(), "[API_ENCODE_ERROR] Failed to encode response", logging.Fields{
			"path":   r.URL.Path,
			"status": statusCode,
		}, err)
		h.metrics.RecordAPIError("encode_error", r.URL.Path)

		statusCode = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{
			Error:   http.StatusText(statusCode),
			Message: "failed to encode response",
			Code:    statusCode,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(append(body, '\n'))
}

// sendError sends an error response
func (h *SolarHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   statusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, r, response, statusCode)
}

func statusText(code int) string {
	if code == StatusClientClosedRequest {
		return "Client Closed Request"
	}
	return http.StatusText(code)
}

// requestID tags each request context with the inbound X-Request-ID or a new one
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// RegisterRoutes registers all solar API routes
func (h *SolarHandler) RegisterRoutes(router *mux.Router) {
	router.Use(requestID)

	router.HandleFunc("/api/cities", h.GetCities).Methods("GET")
	router.HandleFunc("/api/solar", h.GetSolar).Methods("GET")
	router.HandleFunc("/api/solar/compare", h.CompareSolar).Methods("GET")
	router.HandleFunc("/api/estimate", h.GetEstimate).Methods("GET")
	router.HandleFunc("/api/docs/openapi.json", OpenAPISpec).Methods("GET")
	router.HandleFunc("/api/docs", SwaggerUI).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
