package complaints

import (
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/campuscare/campus-care-backend/internal/auth"
	"github.com/campuscare/campus-care-backend/internal/store"
	"github.com/campuscare/campus-care-backend/pkg/models"
	"github.com/campuscare/campus-care-backend/pkg/sanitize"
)

/* ================================ DTOs ================================== */

type ComplaintListItem struct {
	ID          uuid.UUID                `json:"id"`
	Title       string                   `json:"title"`
	Preview     string                   `json:"preview"`
	Category    models.ComplaintCategory `json:"category"`
	Status      models.ComplaintStatus   `json:"status"`
	StudentName string                   `json:"student_name,omitempty"`
	ImageURL    string                   `json:"image_url,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

type PageComplaints struct {
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
	Total    int64               `json:"total"`
	Pages    int                 `json:"pages"`
	Items    []ComplaintListItem `json:"items"`
}

// Body for PATCH /complaints/:id/status (complaint id comes from the path)
type UpdateStatusRequest struct {
	Status            string `json:"status"`
	ResolutionRemarks string `json:"resolution_remarks"`
}

/* =============================== Handler ================================ */

type Handler struct {
	svc      *Service
	store    store.Store
	notifier *store.Notifier
}

func NewHandler(svc *Service, st store.Store, n *store.Notifier) *Handler {
	return &Handler{svc: svc, store: st, notifier: n}
}

// identity builds the explicit caller identity from the auth middleware's
// context values.
func identity(c *fiber.Ctx) Identity {
	uid, err := uuid.Parse(auth.MustUserID(c))
	if err != nil {
		return Identity{}
	}
	return Identity{UserID: uid, Role: models.Role(auth.MustRole(c))}
}

// respondResult maps a workflow result onto an HTTP response.
func respondResult(c *fiber.Ctx, r *Result, successCode int) error {
	switch r.Kind {
	case FailNone:
		return c.Status(successCode).JSON(r)
	case FailValidation:
		// Same Laravel-style shape as validation.Respond, but keeps the
		// workflow's own failure message.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": r.Message,
			"errors":  r.Errors,
		})
	case FailAuthentication:
		return fiber.NewError(fiber.StatusUnauthorized, r.Message)
	case FailAuthorization:
		return fiber.NewError(fiber.StatusForbidden, r.Message)
	case FailNotFound:
		return fiber.NewError(fiber.StatusNotFound, r.Message)
	case FailExternal:
		return fiber.NewError(fiber.StatusBadGateway, r.Message)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, r.Message)
	}
}

func parsePage(c *fiber.Ctx) (page, size int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	size, _ = strconv.Atoi(c.Query("pageSize", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 50 {
		size = 10
	}
	return
}

func toListItems(list []models.Complaint, withStudent bool) []ComplaintListItem {
	items := make([]ComplaintListItem, 0, len(list))
	for _, cp := range list {
		it := ComplaintListItem{
			ID:        cp.ID,
			Title:     cp.Title,
			Preview:   sanitize.Summary(cp.Description, 160),
			Category:  cp.Category,
			Status:    cp.Status,
			ImageURL:  cp.ImageURL,
			CreatedAt: cp.CreatedAt,
		}
		if withStudent {
			it.StudentName = cp.StudentDisplayName
		}
		items = append(items, it)
	}
	return items
}

/* ================================ Create ================================ */

// Create Complaint godoc
// @Summary      Submit complaint
// @Description  Student submits a new complaint; it is AI-categorized and stored with status Pending
// @Tags         complaints
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  SubmitInput  true  "Complaint payload"
// @Success      201  {object}  Result
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Failure      502  {object}  models.ErrorResponse
// @Router       /complaints [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	var in SubmitInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	res := h.svc.Submit(c.Context(), identity(c), in)
	return respondResult(c, res, fiber.StatusCreated)
}

/* ================================ Lists ================================= */

// List My Complaints godoc
// @Summary      List my complaints
// @Description  Student lists their own complaints, newest first (paginated)
// @Tags         complaints
// @Security     BearerAuth
// @Produce      json
// @Param        page      query int false "page"
// @Param        pageSize  query int false "pageSize"
// @Success      200  {object}  PageComplaints
// @Failure      401  {object}  models.ErrorResponse
// @Router       /complaints/mine [get]
func (h *Handler) ListMine(c *fiber.Ctx) error {
	ident := identity(c)
	page, size := parsePage(c)

	list, total, err := h.store.ListComplaints(c.Context(), store.ComplaintFilter{
		StudentID: &ident.UserID,
	}, page, size)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(PageComplaints{
		Page:     page,
		PageSize: size,
		Total:    total,
		Pages:    int(math.Ceil(float64(total) / float64(size))),
		Items:    toListItems(list, false),
	})
}

// Admin List godoc
// @Summary      List all complaints
// @Description  Admin lists every complaint with optional status/category filters
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        page      query int    false "page"
// @Param        pageSize  query int    false "pageSize"
// @Param        status    query string false "status filter"
// @Param        category  query string false "category filter"
// @Success      200  {object}  PageComplaints
// @Failure      401  {object}  models.ErrorResponse
// @Router       /admin/complaints [get]
func (h *Handler) AdminList(c *fiber.Ctx) error {
	page, size := parsePage(c)

	f := store.ComplaintFilter{}
	if v := c.Query("status"); models.ValidStatus(v) {
		f.Status = v
	}
	if v := c.Query("category"); models.ValidCategory(v) {
		f.Category = v
	}

	list, total, err := h.store.ListComplaints(c.Context(), f, page, size)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(PageComplaints{
		Page:     page,
		PageSize: size,
		Total:    total,
		Pages:    int(math.Ceil(float64(total) / float64(size))),
		Items:    toListItems(list, true),
	})
}

/* ================================ Detail ================================ */

// Get Complaint godoc
// @Summary      Complaint detail
// @Description  Owner student or any admin fetches one complaint
// @Tags         complaints
// @Security     BearerAuth
// @Produce      json
// @Param        id   path string true "complaint id (uuid)"
// @Success      200  {object}  models.Complaint
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /complaints/{id} [get]
func (h *Handler) GetDetail(c *fiber.Ctx) error {
	ident := identity(c)
	id := c.Params("id")

	cp, err := h.store.GetComplaintByID(c.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	if ident.Role != models.RoleAdmin && cp.StudentID != ident.UserID {
		return fiber.ErrForbidden
	}
	return c.JSON(cp)
}

/* ============================ Status update ============================= */

// Update Status godoc
// @Summary      Update complaint status
// @Description  Admin moves a complaint through Pending / In Progress / Resolved
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string               true  "complaint id (uuid)"
// @Param        payload  body  UpdateStatusRequest  true  "Status payload"
// @Success      200  {object}  Result
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /complaints/{id}/status [patch]
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	var body UpdateStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}

	res := h.svc.UpdateStatus(c.Context(), identity(c), UpdateStatusInput{
		ComplaintID:       c.Params("id"),
		Status:            body.Status,
		ResolutionRemarks: body.ResolutionRemarks,
	})
	return respondResult(c, res, fiber.StatusOK)
}

/* =============================== Summary ================================ */

// Summary godoc
// @Summary      AI summary
// @Description  Admin requests an ephemeral AI summary of a complaint; recomputed on every call
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path string true "complaint id (uuid)"
// @Success      200  {object}  SummaryResult
// @Failure      401  {object}  models.ErrorResponse
// @Router       /complaints/{id}/summary [get]
func (h *Handler) Summary(c *fiber.Ctx) error {
	// Errors are rendered inline by the caller, so this always returns 200
	// with either {summary} or {error}.
	return c.JSON(h.svc.Summarize(c.Context(), c.Params("id")))
}

/* =============================== Dashboard ============================== */

// Dashboard godoc
// @Summary      Admin dashboard stats
// @Description  Total complaints plus counts by status and by category
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  store.DashboardStats
// @Failure      401  {object}  models.ErrorResponse
// @Router       /admin/dashboard [get]
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.store.Dashboard(c.Context())
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(stats)
}
