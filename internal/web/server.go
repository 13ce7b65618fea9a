package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/openlend/rate-engine/internal/config"
	"github.com/openlend/rate-engine/internal/engine"
	"github.com/openlend/rate-engine/internal/logger"
	"github.com/openlend/rate-engine/internal/state"
	"github.com/openlend/rate-engine/internal/types"
	"github.com/openlend/rate-engine/internal/utils"
)

var webLogger = logger.GetForComponent("web_server")

// WebServer handles HTTP requests for rate queries, pool state intake, and
// authority-gated parameter administration.
type WebServer struct {
	router     *mux.Router
	port       string
	configName string
}

// NewWebServer creates a new web server instance
func NewWebServer(port, configName string) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router:     mux.NewRouter(),
		port:       port,
		configName: configName,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	// Health endpoint (direct route)
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")

	// API endpoints
	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/parameters", ws.handleGetParameters).Methods("GET")
	api.HandleFunc("/parameters", ws.requireAdmin(ws.handlePutParameters)).Methods("PUT")
	api.HandleFunc("/quote", ws.handleQuote).Methods("GET")
	api.HandleFunc("/snapshots", ws.handleGetSnapshots).Methods("GET")
	api.HandleFunc("/pools/{id}/state", ws.handlePostPoolState).Methods("POST")
	api.HandleFunc("/pools/{id}/rate", ws.handleGetPoolRate).Methods("GET")

	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Start starts the web server
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// curveParametersPayload is the wire form of a parameter set. Ray values
// travel as decimal strings; nothing numeric crosses JSON as a float.
type curveParametersPayload struct {
	Version            int    `json:"version"`
	KinkUtilization    string `json:"kink_utilization"`
	SlopeBelowKink     string `json:"slope_below_kink"`
	SlopeAboveKink     string `json:"slope_above_kink"`
	BaseRatePerSecond  string `json:"base_rate_per_second"`
	FeeBasisPoints     uint64 `json:"fee_basis_points"`
	CompoundingPeriods uint64 `json:"compounding_periods"`
}

// quotePayload is the wire form of a rate quote.
type quotePayload struct {
	Utilization        string  `json:"utilization"`
	RatePerSecond      string  `json:"rate_per_second"`
	APR                string  `json:"apr"`
	APY                string  `json:"apy"`
	UtilizationPercent float64 `json:"utilization_percent"`
	APRPercent         float64 `json:"apr_percent"`
	APYPercent         float64 `json:"apy_percent"`
	CompoundingPeriods uint64  `json:"compounding_periods"`
}

// handleHealth returns server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbHealthy := true
	if err := state.TestDBConnection(); err != nil {
		dbHealthy = false
	}

	var snapshotNumber int64
	if n, err := state.GetCurrentSnapshotNumber(); err == nil {
		snapshotNumber = n
	}

	status := "OK"
	statusCode := http.StatusOK
	if !dbHealthy {
		status = "DEGRADED"
		statusCode = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"engine_status": map[string]interface{}{
			"database_healthy": dbHealthy,
			"snapshot_number":  snapshotNumber,
			"config_name":      ws.configName,
		},
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// handleGetParameters returns the active curve parameter set
func (ws *WebServer) handleGetParameters(w http.ResponseWriter, r *http.Request) {
	set, err := state.LoadActiveCurveParameterSet(ws.configName)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get curve parameters")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve curve parameters")
		return
	}

	payload, err := parameterSetToPayload(*set)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to render curve parameters")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to render curve parameters")
		return
	}

	response := map[string]interface{}{
		"config_name": ws.configName,
		"params_id":   set.ParamsID,
		"parameters":  payload,
		"timestamp":   time.Now().UTC(),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handlePutParameters validates and activates an admin-supplied parameter
// set. The capability check already ran in requireAdmin; the bounds checks
// here are the last gate before the values can reach the math engine.
func (ws *WebServer) handlePutParameters(w http.ResponseWriter, r *http.Request) {
	var payload curveParametersPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	set, err := payloadToParameterSet(payload, ws.configName)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := config.ValidateParameterSet(set); err != nil {
		webLogger.Warn().Err(err).Msg("Rejected out-of-range parameter update")
		ws.writeErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	paramsID, err := state.SaveCurveParameterSet(set, true)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to save curve parameters")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to save curve parameters")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"params_id": paramsID,
		"active":    true,
	})
}

// handleQuote computes an on-demand rate quote for a hypothetical pool
// state without persisting anything.
func (ws *WebServer) handleQuote(w http.ResponseWriter, r *http.Request) {
	cash, err := utils.RayFromDecimal(r.URL.Query().Get("cash"))
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid cash value")
		return
	}
	borrows, err := utils.RayFromDecimal(r.URL.Query().Get("borrows"))
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid borrows value")
		return
	}

	set, err := state.LoadActiveCurveParameterSet(ws.configName)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to load curve parameters for quote")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to load curve parameters")
		return
	}

	periods := set.CompoundingPeriods
	if periodsStr := r.URL.Query().Get("periods"); periodsStr != "" {
		parsed, err := strconv.ParseUint(periodsStr, 10, 64)
		if err != nil {
			ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid periods value")
			return
		}
		periods = parsed
	}

	quote, err := engine.Quote(cash, borrows, set.Curve.Clone(), periods)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	payload, err := quoteToPayload(quote)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to render quote")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to render quote")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, payload)
}

// handleGetSnapshots returns recent rate snapshots
func (ws *WebServer) handleGetSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}

	snapshots, err := state.GetRecentRateSnapshots(limit)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get recent snapshots")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve snapshots")
		return
	}

	response := map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
		"limit":     limit,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handlePostPoolState records an observed pool balance sheet
func (ws *WebServer) handlePostPoolState(w http.ResponseWriter, r *http.Request) {
	poolID, ok := ws.poolIDFromRequest(w, r)
	if !ok {
		return
	}

	var body struct {
		Cash    string `json:"cash"`
		Borrows string `json:"borrows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	cash, err := utils.RayFromDecimal(body.Cash)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid cash value")
		return
	}
	borrows, err := utils.RayFromDecimal(body.Borrows)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid borrows value")
		return
	}

	ps := types.PoolState{PoolID: poolID, Cash: cash, Borrows: borrows, UpdatedAt: time.Now().UTC()}
	if err := state.UpsertPoolState(ps); err != nil {
		webLogger.Error().Err(err).Uint64("poolId", uint64(poolID)).Msg("Failed to upsert pool state")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to record pool state")
		return
	}

	ws.writeJSONResponse(w, http.StatusAccepted, map[string]interface{}{
		"pool_id":  poolID,
		"recorded": true,
	})
}

// handleGetPoolRate returns the latest persisted snapshot for a pool
func (ws *WebServer) handleGetPoolRate(w http.ResponseWriter, r *http.Request) {
	poolID, ok := ws.poolIDFromRequest(w, r)
	if !ok {
		return
	}

	snapshot, err := state.GetLatestRateSnapshotForPool(poolID)
	if err != nil {
		webLogger.Error().Err(err).Uint64("poolId", uint64(poolID)).Msg("Failed to get pool rate")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve pool rate")
		return
	}
	if snapshot == nil {
		ws.writeErrorResponse(w, http.StatusNotFound, "Pool has no rate snapshots")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, snapshot)
}

// poolIDFromRequest parses the {id} path variable.
func (ws *WebServer) poolIDFromRequest(w http.ResponseWriter, r *http.Request) (types.PoolID, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid pool ID")
		return 0, false
	}
	return types.PoolID(id), true
}

// parameterSetToPayload renders a stored set back into wire form.
func parameterSetToPayload(set types.CurveParameterSet) (curveParametersPayload, error) {
	kink, err := utils.RayToDecimalString(set.Curve.KinkUtilization)
	if err != nil {
		return curveParametersPayload{}, err
	}
	slopeBelow, err := utils.RayToDecimalString(set.Curve.SlopeBelowKink)
	if err != nil {
		return curveParametersPayload{}, err
	}
	slopeAbove, err := utils.RayToDecimalString(set.Curve.SlopeAboveKink)
	if err != nil {
		return curveParametersPayload{}, err
	}
	base, err := utils.RayToDecimalString(set.Curve.BaseRatePerSecond)
	if err != nil {
		return curveParametersPayload{}, err
	}
	return curveParametersPayload{
		Version:            set.Version,
		KinkUtilization:    kink,
		SlopeBelowKink:     slopeBelow,
		SlopeAboveKink:     slopeAbove,
		BaseRatePerSecond:  base,
		FeeBasisPoints:     set.FeeBasisPoints,
		CompoundingPeriods: set.CompoundingPeriods,
	}, nil
}

// payloadToParameterSet parses wire form into a domain set.
func payloadToParameterSet(payload curveParametersPayload, configName string) (types.CurveParameterSet, error) {
	set := types.CurveParameterSet{
		Version:            payload.Version,
		ConfigName:         configName,
		FeeBasisPoints:     payload.FeeBasisPoints,
		CompoundingPeriods: payload.CompoundingPeriods,
	}

	var err error
	if set.Curve.KinkUtilization, err = utils.RayFromDecimal(payload.KinkUtilization); err != nil {
		return types.CurveParameterSet{}, err
	}
	if set.Curve.SlopeBelowKink, err = utils.RayFromDecimal(payload.SlopeBelowKink); err != nil {
		return types.CurveParameterSet{}, err
	}
	if set.Curve.SlopeAboveKink, err = utils.RayFromDecimal(payload.SlopeAboveKink); err != nil {
		return types.CurveParameterSet{}, err
	}
	if set.Curve.BaseRatePerSecond, err = utils.RayFromDecimal(payload.BaseRatePerSecond); err != nil {
		return types.CurveParameterSet{}, err
	}
	return set, nil
}

// quoteToPayload renders a quote with both exact ray strings and rounded
// percentages for dashboards.
func quoteToPayload(quote types.RateQuote) (quotePayload, error) {
	utilization, err := utils.RayToDecimalString(quote.Utilization)
	if err != nil {
		return quotePayload{}, err
	}
	rate, err := utils.RayToDecimalString(quote.RatePerSecond)
	if err != nil {
		return quotePayload{}, err
	}
	apr, err := utils.RayToDecimalString(quote.APR)
	if err != nil {
		return quotePayload{}, err
	}
	apy, err := utils.RayToDecimalString(quote.APY)
	if err != nil {
		return quotePayload{}, err
	}

	utilizationF, err := utils.RayToFloat64(quote.Utilization)
	if err != nil {
		return quotePayload{}, err
	}
	aprF, err := utils.RayToFloat64(quote.APR)
	if err != nil {
		return quotePayload{}, err
	}
	apyF, err := utils.RayToFloat64(quote.APY)
	if err != nil {
		return quotePayload{}, err
	}

	return quotePayload{
		Utilization:        utilization,
		RatePerSecond:      rate,
		APR:                apr,
		APY:                apy,
		UtilizationPercent: utilizationF * 100,
		APRPercent:         aprF * 100,
		APYPercent:         apyF * 100,
		CompoundingPeriods: quote.CompoundingPeriods,
	}, nil
}

// requireAdmin is the capability check for authority-only routes. The math
// core performs no identity checks of its own.
func (ws *WebServer) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if config.AdminToken == "" || r.Header.Get("Authorization") != "Bearer "+config.AdminToken {
			webLogger.Warn().Str("remote_addr", r.RemoteAddr).Msg("Rejected unauthorized parameter update")
			ws.writeErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
