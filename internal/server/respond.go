package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"alphamastery/internal/api"
	"alphamastery/internal/logging"
	"alphamastery/internal/rotation"
	"alphamastery/internal/services"
)

// maxBodyBytes bounds request bodies; canvas images arrive as base64.
const maxBodyBytes = 8 << 20

// decodeJSON reads the request body into target. An empty body leaves
// target untouched when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.Wrap(services.ErrValidation, "server", "decode", "request body too large", nil)
		}
		return services.Wrap(services.ErrValidation, "server", "decode", "invalid JSON body", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

// writeStatus answers with a fixed status and message.
func (s *Server) writeStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	requestID, _ := services.RequestIDFromContext(r.Context())
	s.writeJSON(w, status, api.ErrorResponse{
		Status:    api.StatusError,
		Error:     message,
		RequestID: requestID,
	})
}

// writeError maps err onto a response. Empty rotation groups are a success
// with "status":"empty".
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if rotation.IsEmpty(err) {
		s.writeJSON(w, http.StatusOK, api.EmptyResponse{Status: api.StatusEmpty, Message: "no content available"})
		return
	}

	kind := services.Classify(err)
	status := http.StatusInternalServerError
	message := err.Error()
	logger := logging.WithContext(r.Context(), s.logger)
	switch kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindUnavailable:
		status = http.StatusServiceUnavailable
	case services.KindInvariant:
		logger.Error("invariant violated", logging.Error(err))
		message = "internal error"
	default:
		logger.Error("request failed", logging.Error(err))
		message = "internal error"
	}

	requestID, _ := services.RequestIDFromContext(r.Context())
	s.writeJSON(w, status, api.ErrorResponse{
		Status:    api.StatusError,
		Error:     message,
		Kind:      string(kind),
		Retryable: services.Retryable(err),
		RequestID: requestID,
	})
}
