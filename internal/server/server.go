package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/seyeddanesh/startupcapmodel/internal/config"
	"github.com/seyeddanesh/startupcapmodel/internal/engine"
	"github.com/seyeddanesh/startupcapmodel/internal/model"
	"github.com/seyeddanesh/startupcapmodel/pkg/constants"
	"github.com/seyeddanesh/startupcapmodel/pkg/output"
)

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the cap-table API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Full recalculation over a posted model
	mux.HandleFunc("/api/recalculate", h.handleRecalculate)

	// Timeline mutations (insert/update/remove), each of which recalculates
	mux.HandleFunc("/api/timeline/insert", h.handleTimelineInsert)
	mux.HandleFunc("/api/timeline/update", h.handleTimelineUpdate)
	mux.HandleFunc("/api/timeline/remove", h.handleTimelineRemove)

	// Model serialization endpoint for downloads
	mux.HandleFunc("/api/export", h.handleExport)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type recalculateResponse struct {
	FounderName string          `json:"founderName"`
	Events      model.EventList `json:"events"`
	CSV         string          `json:"csv"`
	Warnings    []string        `json:"warnings,omitempty"`
	Duration    string          `json:"duration"`
}

type insertRequest struct {
	Config     map[string]interface{} `json:"config"`
	Kind       string                 `json:"kind"`
	AfterOrder *int                   `json:"afterOrder,omitempty"`
}

type updateRequest struct {
	Config  map[string]interface{} `json:"config"`
	EventID string                 `json:"eventId"`
	Field   string                 `json:"field"`
	Value   interface{}            `json:"value"`
}

type removeRequest struct {
	Config  map[string]interface{} `json:"config"`
	EventID string                 `json:"eventId"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	payload, ok := h.decodePayload(w, r, "server.handleRecalculate")
	if !ok {
		return
	}

	warnings, timeline, ok := h.buildTimeline(w, payload, "server.handleRecalculate")
	if !ok {
		return
	}

	timeline.Recalculate()
	h.respondTimeline(w, warnings, timeline, start, "server.handleRecalculate")
}

func (h *handler) handleTimelineInsert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req insertRequest
	if !h.decodeJSON(w, r, &req, "server.handleTimelineInsert") {
		return
	}

	warnings, timeline, ok := h.buildTimeline(w, req.Config, "server.handleTimelineInsert")
	if !ok {
		return
	}

	switch model.Kind(req.Kind) {
	case model.KindFundingRound:
		timeline.InsertFundingRound(req.AfterOrder)
	case model.KindOptionPool:
		timeline.InsertOptionPool(req.AfterOrder)
	default:
		h.respondErrorWithOp(w, http.StatusBadRequest,
			fmt.Sprintf("unknown event kind %q", req.Kind), "server.handleTimelineInsert")
		return
	}

	h.respondTimeline(w, warnings, timeline, start, "server.handleTimelineInsert")
}

func (h *handler) handleTimelineUpdate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req updateRequest
	if !h.decodeJSON(w, r, &req, "server.handleTimelineUpdate") {
		return
	}

	warnings, timeline, ok := h.buildTimeline(w, req.Config, "server.handleTimelineUpdate")
	if !ok {
		return
	}

	if _, err := timeline.UpdateField(req.EventID, req.Field, req.Value); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleTimelineUpdate")
		return
	}

	h.respondTimeline(w, warnings, timeline, start, "server.handleTimelineUpdate")
}

func (h *handler) handleTimelineRemove(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req removeRequest
	if !h.decodeJSON(w, r, &req, "server.handleTimelineRemove") {
		return
	}

	warnings, timeline, ok := h.buildTimeline(w, req.Config, "server.handleTimelineRemove")
	if !ok {
		return
	}

	if _, err := timeline.RemoveEvent(req.EventID); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleTimelineRemove")
		return
	}

	h.respondTimeline(w, warnings, timeline, start, "server.handleTimelineRemove")
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodePayload(w, r, "server.handleExport")
	if !ok {
		return
	}

	_, timeline, ok := h.buildTimeline(w, payload, "server.handleExport")
	if !ok {
		return
	}

	m := timeline.Model()
	model.StripCapTables(m.Events)

	yamlBytes, err := yaml.Marshal(m)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest,
			fmt.Sprintf("failed to encode model: %v", err), "server.handleExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"modelYaml": string(yamlBytes),
	})
}

// decodePayload reads a JSON object body for endpoints that take the model
// document directly.
func (h *handler) decodePayload(w http.ResponseWriter, r *http.Request, op string) (map[string]interface{}, bool) {
	var payload map[string]interface{}
	if !h.decodeJSON(w, r, &payload, op) {
		return nil, false
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	return payload, true
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}, op string) bool {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return false
	}

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest,
			fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

// buildTimeline round-trips the posted model document through the YAML
// config loader so the HTTP path shares parsing, defaulting, and validation
// with the CLI.
func (h *handler) buildTimeline(w http.ResponseWriter, payload map[string]interface{}, op string) ([]string, *engine.Timeline, bool) {
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configBytes, err := yaml.Marshal(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest,
			fmt.Sprintf("failed to encode model: %v", err), op)
		return nil, nil, false
	}

	cfg, err := config.LoadConfigurationFromReader(strings.NewReader(string(configBytes)))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, nil, false
	}

	warnings := cfg.ValidateConfiguration()

	m, err := cfg.BuildModel()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, nil, false
	}

	eng := engine.New(h.logger)
	timeline := engine.NewTimeline(eng, m, cfg.RateTable())
	return warnings, timeline, true
}

func (h *handler) respondTimeline(w http.ResponseWriter, warnings []string, timeline *engine.Timeline, start time.Time, op string) {
	m := timeline.Model()
	elapsed := time.Since(start)

	response := recalculateResponse{
		FounderName: m.FounderName,
		Events:      m.Events,
		CSV:         output.CsvString(m.Events, m.FounderName),
		Warnings:    warnings,
		Duration:    elapsed.String(),
	}

	h.logger.Info("cap table recalculated",
		zap.String("op", op),
		zap.Int("events", len(response.Events)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("cap table request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
