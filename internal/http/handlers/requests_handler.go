// Guest request HTTP handlers.
//
// This file exposes REST endpoints for the staff request dashboard:
//   - GET    /requests                  (merged view, filterable, ETag support)
//   - POST   /requests                  (create, optimistic under the hood)
//   - PATCH  /requests/{id}             (update status/priority/fields)
//   - DELETE /requests/{id}             (remove a request)
//   - POST   /requests/{id}/reactivate  (back to in_progress)
//   - GET    /sync/status               (session synchronization state)
//
// Handlers are transport-thin: they validate input, call the synchronization
// manager, and translate results into HTTP responses (including conditional
// responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velin-hotels/hotel-sync-backend/internal/backend"
	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
	"github.com/velin-hotels/hotel-sync-backend/internal/repo"
	"github.com/velin-hotels/hotel-sync-backend/internal/requests"
	"github.com/velin-hotels/hotel-sync-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// RequestService defines the dashboard operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts. The caller's identity is
// carried in the context.
type RequestService interface {
	// List returns the merged request view for a filter.
	List(ctx context.Context, f requests.Filter) ([]domain.StaffNote, error)
	// Create files a new request and returns the confirmed record.
	Create(ctx context.Context, in requests.CreateRequestInput) (*domain.StaffNote, error)
	// Update applies column updates to a request in the caller's hotel.
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete removes a request from the caller's hotel.
	Delete(ctx context.Context, id string) error
	// Reactivate moves a request back to in_progress.
	Reactivate(ctx context.Context, id string) error
	// Status reports the synchronization state of the caller's session.
	Status(ctx context.Context) (requests.SyncStatus, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for guest requests and sync status.
// It depends on an abstract service interface to keep transport concerns
// separate from synchronization logic.
type Handlers struct {
	svc RequestService
	db  *gorm.DB // optional, enables the ETag pre-check on list
}

// New constructs and returns a Handlers instance bound to the given service.
// db may be nil; the list ETag pre-check is then skipped.
func New(svc RequestService, db *gorm.DB) *Handlers {
	return &Handlers{svc: svc, db: db}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// reqCtx returns the request context with the caller's identity attached, so
// the synchronization layer can resolve the hotel scope.
func reqCtx(c *gin.Context) context.Context {
	return backend.WithUser(c.Request.Context(), userID(c))
}

//
// DTOs
//

// CreateRequestRequest is the JSON payload for filing a guest request.
type CreateRequestRequest struct {
	// GuestName is the guest's last name used to resolve the guest record.
	GuestName string `json:"guest_name" binding:"required,min=1,max=255" example:"Papadopoulos"`
	// RoomNumber locates the guest within the hotel.
	RoomNumber string `json:"room_number" binding:"required,min=1,max=32" example:"412"`
	// Department routes the request (e.g. housekeeping, maintenance).
	Department string `json:"department" binding:"required,min=1,max=64" example:"housekeeping"`
	// Description is the free-text body of the request.
	Description string `json:"description" binding:"required,min=1" example:"Extra towels, please"`
}

// UpdateRequestRequest is the JSON payload for updating a request. All fields
// are optional; only the provided ones are changed.
type UpdateRequestRequest struct {
	Status      *string `json:"status,omitempty" example:"completed"`
	Priority    *string `json:"priority,omitempty" example:"high"`
	Department  *string `json:"department,omitempty" example:"maintenance"`
	NoteContent *string `json:"note_content,omitempty" example:"Extra towels and a blanket"`
	IsActive    *bool   `json:"is_active,omitempty" example:"true"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// ListRequestsResponse wraps a page of the merged request view.
type ListRequestsResponse struct {
	Requests   []domain.StaffNote `json:"requests"`
	Pagination Pagination         `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 100
		maxPageSize     = 500
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// fields converts the patch payload into a column update map, validating
// enum-valued fields. It returns an error message for the first invalid field.
func (r UpdateRequestRequest) fields() (map[string]any, string) {
	out := make(map[string]any)
	if r.Status != nil {
		switch *r.Status {
		case domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted, domain.StatusCancelled:
			out["status"] = *r.Status
		default:
			return nil, "status must be one of: pending, in_progress, completed, cancelled"
		}
	}
	if r.Priority != nil {
		switch *r.Priority {
		case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
			out["priority"] = *r.Priority
		default:
			return nil, "priority must be one of: low, medium, high"
		}
	}
	if r.Department != nil {
		if strings.TrimSpace(*r.Department) == "" {
			return nil, "department must not be empty"
		}
		out["department"] = *r.Department
	}
	if r.NoteContent != nil {
		if strings.TrimSpace(*r.NoteContent) == "" {
			return nil, "note_content must not be empty"
		}
		out["note_content"] = *r.NoteContent
	}
	if r.IsActive != nil {
		out["is_active"] = *r.IsActive
	}
	if len(out) == 0 {
		return nil, "at least one field is required"
	}
	return out, ""
}

// failSync translates synchronization-layer errors into HTTP responses.
func failSync(c *gin.Context, err error, fallbackCode string) {
	var ve *requests.ValidationError
	var be *requests.BackendError
	switch {
	case errors.Is(err, requests.ErrNotAuthenticated):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	case errors.Is(err, requests.ErrProfileNotFound):
		fail(c, http.StatusForbidden, ErrCodeProfileNotFound, "no staff profile for user")
	case errors.Is(err, requests.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "request not found")
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, ve.Error())
	case errors.As(err, &be):
		fail(c, http.StatusBadGateway, ErrCodeBackendFailed, be.Error())
	default:
		fail(c, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}

//
// Handlers
//

// ListRequests godoc
// @ID          listRequests
// @Summary     List guest requests
// @Description Returns the hotel's merged request view, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Requests
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       status         query   string  false "Filter by status"            Enums(pending, in_progress, completed, cancelled, all)
// @Param       department     query   string  false "Filter by department"        example(housekeeping)
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(500) default(100)
//
// @Success     200  {object} handlers.ListRequestsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Not authenticated"
// @Failure     403  {object} handlers.ErrorResponse "No staff profile"
// @Failure     502  {object} handlers.ErrorResponse "Backend failed"
// @Router      /requests [get]
func (h *Handlers) ListRequests(c *gin.Context) {
	ctx := reqCtx(c)
	f := requests.Filter{
		Status:     c.Query("status"),
		Department: c.Query("department"),
	}

	// ETag pre-check (best effort).
	if h.db != nil {
		if profile, err := repo.GetStaffProfile(ctx, h.db, userID(c)); err == nil {
			count, maxTS, err := repo.NotesStats(ctx, h.db, profile.HotelID)
			if err == nil {
				var ts int64
				if maxTS != nil {
					ts = maxTS.Unix()
				}
				etag := fmt.Sprintf(`W/"requests:%s:%d:%d"`, profile.HotelID, count, ts)
				c.Header("ETag", etag)
				if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
					c.Status(http.StatusNotModified)
					return
				}
			}
		}
	}

	items, err := h.svc.List(ctx, f)
	if err != nil {
		failSync(c, err, ErrCodeListFailed)
		return
	}

	// Paginate the in-memory view.
	page, pageSize := clampPagination(c)
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	ok(c, http.StatusOK, ListRequestsResponse{
		Requests: items[start:end],
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// CreateRequest godoc
// @ID          createRequest
// @Summary     File a new guest request
// @Description Creates a request for the caller's hotel and returns the confirmed record. The guest is resolved (or created) by room number and last name.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Requests
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       body             body    handlers.CreateRequestRequest  true  "Create request payload"
//
// @Success     201  {object}  domain.StaffNote
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Not authenticated"
// @Failure     403  {object}  handlers.ErrorResponse  "No staff profile"
// @Failure     502  {object}  handlers.ErrorResponse  "Backend failed"
// @Router      /requests [post]
func (h *Handlers) CreateRequest(c *gin.Context) {
	ctx := reqCtx(c)

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	currentUser := userID(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := idempotencyKey(c)
	if idemKey != "" && h.db != nil {
		if rec, err := repo.GetIdempotency(ctx, h.db, currentUser, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if prev, err2 := repo.GetNote(ctx, h.db, rec.HotelID, rec.NoteID); err2 == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, http.StatusOK, prev)
				return
			}
		}
	}

	note, err := h.svc.Create(ctx, requests.CreateRequestInput{
		GuestName:   strings.TrimSpace(req.GuestName),
		RoomNumber:  strings.TrimSpace(req.RoomNumber),
		Department:  strings.TrimSpace(req.Department),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		failSync(c, err, ErrCodeCreateFailed)
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" && h.db != nil {
		ttl := 24 * time.Hour
		_, _ = repo.CreateIdempotency(ctx, h.db, currentUser, note.HotelID, idemKey, note.ID, http.StatusCreated, ttl)
	}

	ok(c, http.StatusCreated, note)
}

// idempotencyKey extracts an idempotency key if an upstream middleware has
// already validated/stashed it. The fallback behavior reads the
// "Idempotency-Key" header directly when no dedicated middleware exists.
func idempotencyKey(c *gin.Context) (string, bool) {
	if v := strings.TrimSpace(c.GetHeader("Idempotency-Key")); v != "" {
		return v, true
	}
	return "", false
}

// UpdateRequest godoc
// @ID          updateRequest
// @Summary     Update a guest request
// @Description Applies partial updates to a request. Completing or cancelling stamps the fulfillment timestamp.
// @Tags        Requests
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Request ID (UUID)"      format(uuid)
// @Param       body       body    handlers.UpdateRequestRequest  true  "Fields to update"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Request not found"
// @Failure     502  {object} handlers.ErrorResponse "Backend failed"
// @Router      /requests/{id} [patch]
func (h *Handlers) UpdateRequest(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "request id must be a UUID")
		return
	}

	var req UpdateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	fields, msg := req.fields()
	if msg != "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msg)
		return
	}

	if err := h.svc.Update(reqCtx(c), id, fields); err != nil {
		failSync(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}

// DeleteRequest godoc
// @ID          deleteRequest
// @Summary     Delete a guest request
// @Description Removes a request from the caller's hotel. Connected dashboards drop the record through the realtime DELETE event.
// @Tags        Requests
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Request ID (UUID)"      format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Request not found"
// @Failure     502  {object} handlers.ErrorResponse "Backend failed"
// @Router      /requests/{id} [delete]
func (h *Handlers) DeleteRequest(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "request id must be a UUID")
		return
	}

	if err := h.svc.Delete(reqCtx(c), id); err != nil {
		failSync(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}

// ReactivateRequest godoc
// @ID          reactivateRequest
// @Summary     Reactivate a guest request
// @Description Moves a completed or cancelled request back to in_progress and clears its fulfillment timestamp.
// @Tags        Requests
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Request ID (UUID)"      format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Request not found"
// @Failure     502  {object} handlers.ErrorResponse "Backend failed"
// @Router      /requests/{id}/reactivate [post]
func (h *Handlers) ReactivateRequest(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "request id must be a UUID")
		return
	}

	if err := h.svc.Reactivate(reqCtx(c), id); err != nil {
		failSync(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}

// SyncStatus godoc
// @ID          syncStatus
// @Summary     Synchronization status
// @Description Reports whether the caller's hotel session has a live realtime subscription and how many records the merged view holds.
// @Tags        Sync
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} requests.SyncStatus
// @Failure     401  {object} handlers.ErrorResponse "Not authenticated"
// @Failure     403  {object} handlers.ErrorResponse "No staff profile"
// @Router      /sync/status [get]
func (h *Handlers) SyncStatus(c *gin.Context) {
	st, err := h.svc.Status(reqCtx(c))
	if err != nil {
		failSync(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, st)
}
