package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamsage/streamsage/internal/discovery"
	"github.com/streamsage/streamsage/internal/scheduler"
)

// errorResponse is the failure payload; it mirrors the success shape so
// clients can always read results and responseText.
type errorResponse struct {
	Success      bool                     `json:"success"`
	Error        string                   `json:"error"`
	Results      []discovery.SearchResult `json:"results"`
	ResponseText string                   `json:"responseText"`
}

func newErrorResponse(message string) errorResponse {
	return errorResponse{
		Success: false,
		Error:   message,
		Results: []discovery.SearchResult{},
	}
}

// handleDiscover is POST /api/v1/discover, the single conversational
// entry point.
func (s *Server) handleDiscover(c echo.Context) error {
	var req discovery.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, newErrorResponse("invalid request body"))
	}

	resp, err := s.discovery.Discover(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, discovery.ErrEmptyQuery):
			return c.JSON(http.StatusBadRequest, newErrorResponse("query is required"))
		case errors.Is(err, discovery.ErrNotConfigured):
			s.logger.Error().Err(err).Msg("Discovery request rejected")
			return c.JSON(http.StatusInternalServerError, newErrorResponse("service is not configured"))
		default:
			s.logger.Error().Err(err).Str("query", req.Query).Msg("Discovery request failed")
			return c.JSON(http.StatusInternalServerError, newErrorResponse("discovery failed"))
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// healthCheck is GET /health, a liveness probe with no dependencies.
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// statusResponse reports provider readiness and scheduled task state.
type statusResponse struct {
	Catalog   bool                 `json:"catalog"`
	Assistant bool                 `json:"assistant"`
	Tasks     []scheduler.TaskInfo `json:"tasks"`
}

// getStatus is GET /api/v1/status.
func (s *Server) getStatus(c echo.Context) error {
	resp := statusResponse{
		Catalog:   s.catalog.IsConfigured(),
		Assistant: s.provider.IsConfigured(),
		Tasks:     []scheduler.TaskInfo{},
	}
	if s.sched != nil {
		resp.Tasks = s.sched.ListTasks()
	}
	return c.JSON(http.StatusOK, resp)
}
