package application

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redmonkez12/job-tracker/internal/auth"
	"github.com/redmonkez12/job-tracker/internal/httputil"
	"github.com/redmonkez12/job-tracker/internal/logging"
)

// Handler contains HTTP handlers for application endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateRequest represents the create request body
type CreateRequest struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Status  string `json:"status"`
	Link    string `json:"link"`
	Notes   string `json:"notes"`
}

// UpdateRequest represents a partial update. Absent fields stay unchanged;
// an explicit empty string is a value, not an absence.
type UpdateRequest struct {
	Company *string `json:"company"`
	Role    *string `json:"role"`
	Status  *string `json:"status"`
	Link    *string `json:"link"`
	Notes   *string `json:"notes"`
}

// DeleteResponse confirms a deletion
type DeleteResponse struct {
	Message string `json:"message"`
}

// List returns the caller's applications
// @Summary      List applications
// @Description  List the authenticated user's applications, optionally filtered by status and sorted by creation time. Anonymous callers receive an empty list.
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by status" Enums(applied, interviewing, offer)
// @Param        sort query string false "Sort order" Enums(newest, oldest)
// @Success      200 {array} Application
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /applications [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	filter := ListFilter{
		Status: Status(r.URL.Query().Get("status")),
		Sort:   r.URL.Query().Get("sort"),
	}

	// Identity is optional here: guests get an empty list
	var owner *uuid.UUID
	if userID, ok := auth.GetUserIDFromContext(r.Context()); ok {
		owner = &userID
	}

	apps, err := h.service.List(r.Context(), owner, filter)
	if err != nil {
		logger.Error("failed to list applications", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list applications", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, apps, http.StatusOK)
}

// Create adds a new application owned by the caller
// @Summary      Create an application
// @Description  Create a new job application owned by the authenticated user. Status defaults to "applied".
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Application fields"
// @Success      201 {object} Application
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /applications [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "authentication required", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid create request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	app, err := h.service.Create(r.Context(), owner, CreateInput{
		Company: req.Company,
		Role:    req.Role,
		Status:  Status(req.Status),
		Link:    req.Link,
		Notes:   req.Notes,
	})
	if err != nil {
		h.respondServiceError(w, r, err, "failed to create application")
		return
	}

	logger.Info("application created", "application_id", app.ID, "user_id", owner)

	httputil.RespondJSON(w, app, http.StatusCreated)
}

// Update applies a partial update to an application the caller owns
// @Summary      Update an application
// @Description  Update company, role, status, link or notes of an application owned by the authenticated user. Absent fields are left unchanged.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Application id"
// @Param        request body UpdateRequest true "Fields to update"
// @Success      200 {object} Application
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      403 {object} httputil.ErrorResponse "Owned by another user"
// @Failure      404 {object} httputil.ErrorResponse "No such application"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /applications/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "authentication required", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid update request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	fields := UpdateFields{
		Company: req.Company,
		Role:    req.Role,
		Link:    req.Link,
		Notes:   req.Notes,
	}
	if req.Status != nil {
		status := Status(*req.Status)
		fields.Status = &status
	}

	app, err := h.service.Update(r.Context(), owner, id, fields)
	if err != nil {
		h.respondServiceError(w, r, err, "failed to update application")
		return
	}

	logger.Info("application updated", "application_id", app.ID, "user_id", owner)

	httputil.RespondJSON(w, app, http.StatusOK)
}

// Delete removes an application the caller owns
// @Summary      Delete an application
// @Description  Permanently delete an application owned by the authenticated user. There is no recovery path.
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Application id"
// @Success      200 {object} DeleteResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      403 {object} httputil.ErrorResponse "Owned by another user"
// @Failure      404 {object} httputil.ErrorResponse "No such application"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /applications/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "authentication required", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), owner, id); err != nil {
		h.respondServiceError(w, r, err, "failed to delete application")
		return
	}

	logger.Info("application deleted", "application_id", id, "user_id", owner)

	httputil.RespondJSON(w, DeleteResponse{Message: "application deleted"}, http.StatusOK)
}

// respondServiceError maps service errors to the HTTP taxonomy
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	logger := logging.GetLoggerFromContext(r.Context())

	switch {
	case errors.Is(err, ErrCompanyRequired):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeCompanyRequired, http.StatusBadRequest)
	case errors.Is(err, ErrRoleRequired):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeRoleRequired, http.StatusBadRequest)
	case errors.Is(err, ErrInvalidStatus):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidStatus, http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		logger.Warn("ownership check failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "forbidden", httputil.CodeForbidden, http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		httputil.RespondErrorWithCode(w, "application not found", httputil.CodeNotFound, http.StatusNotFound)
	default:
		logger.Error(fallback, "error", err.Error())
		httputil.RespondErrorWithCode(w, fallback, httputil.CodeInternalError, http.StatusInternalServerError)
	}
}
