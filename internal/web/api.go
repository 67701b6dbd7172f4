package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/roasbeef/pushclash/internal/build"
	"github.com/roasbeef/pushclash/internal/roast"
)

// maxRequestBytes bounds the JSON request body.
const maxRequestBytes = 1 << 16

// RoastRequest is the body of POST /api/leetcode-roast.
type RoastRequest struct {
	Username string `json:"username"`
}

// APIError is the body of every error response.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Time    string `json:"time"`
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("Error encoding JSON response", "error", err)
	}
}

// writeError writes an error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg,
	detail string) {

	s.writeJSON(w, status, APIError{Error: msg, Message: detail})
}

// handleRoot handles GET /.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "PushClash backend is working!")
}

// handleWake handles GET /api/wake.
func (s *Server) handleWake(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "Server is awake",
	})
}

// handleHealth handles GET /api/v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: build.Version(),
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleCacheStats handles GET /api/v1/cache/stats.
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		s.writeError(w, http.StatusNotFound, "Cache stats unavailable", "")
		return
	}

	s.writeJSON(w, http.StatusOK, s.stats())
}

// handleRoast handles POST /api/leetcode-roast.
func (s *Server) handleRoast(w http.ResponseWriter, r *http.Request) {
	var req RoastRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil &&
		!errors.Is(err, io.EOF) {

		s.writeError(w, http.StatusBadRequest, "Invalid request body",
			"")
		return
	}

	resp, err := s.roaster.Roast(r.Context(), req.Username)
	if err != nil {
		s.writeRoastError(w, r, req.Username, err)
		return
	}

	s.log.Info("Roast served",
		"request_id", RequestID(r.Context()),
		"username", resp.User.Username,
		"outcome", resp.Outcome,
	)

	s.writeJSON(w, http.StatusOK, resp)
}

// writeRoastError maps a roast pipeline error onto an HTTP response.
func (s *Server) writeRoastError(w http.ResponseWriter, r *http.Request,
	username string, err error) {

	status, apiErr := roastErrorBody(err)
	s.logRoastError("Roast failed", RequestID(r.Context()), username, err)

	s.writeJSON(w, status, apiErr)
}

// logRoastError logs a pipeline failure. Invalid input is not logged and a
// client that went away is only logged at debug level.
func (s *Server) logRoastError(msg, reqID, username string, err error) {
	switch {
	case errors.Is(err, roast.ErrInvalidInput):

	case errors.Is(err, context.Canceled):
		s.log.Debug("Roast abandoned by client",
			"request_id", reqID,
			"username", username,
		)

	default:
		s.log.Error(msg,
			"request_id", reqID,
			"username", username,
			"error", err,
		)
	}
}

// roastErrorBody returns the status and client facing body for err. Error
// details are never sent to the client.
func roastErrorBody(err error) (int, APIError) {
	switch {
	case errors.Is(err, roast.ErrInvalidInput):
		return http.StatusBadRequest, APIError{
			Error: "Username is required",
		}

	case errors.Is(err, roast.ErrGenerationFailed):
		return http.StatusBadGateway, APIError{
			Error:   "Failed to generate LeetCode roast",
			Message: "the roast generator is unavailable",
		}

	default:
		return http.StatusInternalServerError, APIError{
			Error:   "Failed to generate LeetCode roast",
			Message: "internal error",
		}
	}
}
