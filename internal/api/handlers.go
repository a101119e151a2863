// Package api is the HTTP adapter over the analysis pipeline.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"casemark/internal/classify"
	"casemark/internal/features"
	"casemark/internal/pipeline"
	"casemark/internal/raster"
)

// analyzeResponse wraps the record with the optional classification.
type analyzeResponse struct {
	*features.FeatureRecord
	Classification *classify.Classification `json:"classification,omitempty"`
}

// Handlers serves the analysis endpoints.
type Handlers struct {
	pipeline   *pipeline.Pipeline
	classifier *classify.Classifier
	logger     *zap.Logger
}

// NewHandlers wires the pipeline and classifier into HTTP handlers.
func NewHandlers(p *pipeline.Pipeline, c *classify.Classifier, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{pipeline: p, classifier: c, logger: logger}
}

// Health reports service liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "casemark"})
}

// Analyze accepts an image (multipart field "image" or raw body) and
// returns the feature record, or an {error} payload with a non-2xx
// status. The two are never mixed.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// The pre-decode ceiling also bounds what we buffer off the wire.
	r.Body = http.MaxBytesReader(w, r.Body, raster.MaxPayloadBytes+1)

	data, meta, err := readPayload(r)
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload exceeds the size ceiling")
			return
		}
		writeError(w, http.StatusBadRequest, "reading request payload: "+err.Error())
		return
	}

	record, err := h.pipeline.AnalyzeBytes(data, meta)
	if err != nil {
		status := statusFor(err)
		h.logger.Warn("analysis rejected",
			zap.String("filename", meta.Filename),
			zap.Int("status", status),
			zap.Error(err))
		writeError(w, status, err.Error())
		return
	}

	resp := analyzeResponse{FeatureRecord: record}
	if h.classifier != nil && r.URL.Query().Get("classify") == "1" {
		resp.Classification = h.classifier.Classify(record)
	}

	h.logger.Info("analysis served",
		zap.String("filename", meta.Filename),
		zap.Int64("bytes", meta.FileSize),
		zap.Int("firing_pin_marks", record.FiringPinMarks.NumCircularMarks))

	writeJSON(w, http.StatusOK, resp)
}

// readPayload extracts the image bytes and caller metadata from either a
// multipart form or the raw body.
func readPayload(r *http.Request) ([]byte, features.Metadata, error) {
	meta := features.Metadata{ContentType: r.Header.Get("Content-Type")}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, meta, err
		}
		meta.Filename = header.Filename
		meta.FileSize = header.Size
		if ct := header.Header.Get("Content-Type"); ct != "" {
			meta.ContentType = ct
		}
		return data, meta, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, meta, err
	}
	meta.FileSize = int64(len(data))
	return data, meta, nil
}

// statusFor maps the pipeline error taxonomy to HTTP statuses.
func statusFor(err error) int {
	var tooLarge *raster.PayloadTooLargeError
	var decode *raster.DecodeError
	var dims *raster.DimensionError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &decode):
		return http.StatusUnprocessableEntity
	case errors.As(err, &dims):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, features.ErrorResponse{Error: msg})
}
