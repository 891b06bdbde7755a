// Package complaints implements the complaint submission and lifecycle
// workflow: chained validation, AI categorization, image upload and document
// persistence for submit, plus the admin status update and on-demand
// summaries.
package complaints

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuscare/campus-care-backend/internal/ai"
	"github.com/campuscare/campus-care-backend/internal/storage"
	"github.com/campuscare/campus-care-backend/internal/store"
	"github.com/campuscare/campus-care-backend/pkg/models"
	"github.com/campuscare/campus-care-backend/pkg/validation"
)

/* ========================== Collaborator seams ========================== */

// MediaStore is the slice of the blob storage client the workflow needs.
type MediaStore interface {
	MakeObjectKey(studentID string, at time.Time) string
	UploadDataURI(key, dataURI string) (*storage.UploadResult, error)
	Delete(key string) error
}

// Inference is the slice of the AI client the workflow needs.
type Inference interface {
	Categorize(ctx context.Context, in ai.CategorizeInput) (*ai.CategorizeResult, error)
	Summarize(ctx context.Context, in ai.SummarizeInput) (string, error)
}

/* ============================== Identity ================================ */

// Identity is the caller passed explicitly into every workflow operation.
// There is no ambient current-user state.
type Identity struct {
	UserID uuid.UUID
	Role   models.Role
}

func (id Identity) anonymous() bool { return id.UserID == uuid.Nil }

/* =============================== Results ================================ */

// FailureKind discriminates workflow outcomes. Every operation reports its
// failure through a Result instead of raising past the workflow boundary.
type FailureKind string

const (
	FailNone           FailureKind = ""
	FailValidation     FailureKind = "validation"
	FailAuthentication FailureKind = "authentication"
	FailAuthorization  FailureKind = "authorization"
	FailNotFound       FailureKind = "not_found"
	FailExternal       FailureKind = "external"
	FailPersistence    FailureKind = "persistence"
)

// Result is the discriminated outcome of Submit and UpdateStatus. On
// success ID (for Submit) and Message are set; on failure Kind names the
// error class and Errors carries per-field messages for validation.
type Result struct {
	ID      string              `json:"id,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Kind    FailureKind         `json:"-"`
}

func (r *Result) OK() bool { return r.Kind == FailNone }

func failure(kind FailureKind, msg string) *Result {
	return &Result{Kind: kind, Message: msg}
}

/* ============================== Service ================================= */

type Service struct {
	store store.Store
	media MediaStore
	ai    Inference
}

func NewService(st store.Store, media MediaStore, inf Inference) *Service {
	return &Service{store: st, media: media, ai: inf}
}

/* ============================== Submit ================================== */

type SubmitInput struct {
	Title           string  `json:"title" validate:"required,min=5,max=120"`
	Description     string  `json:"description" validate:"required,min=10,max=2000"`
	Latitude        float64 `json:"latitude" validate:"latitude"`
	Longitude       float64 `json:"longitude" validate:"longitude"`
	LocationAddress string  `json:"location_address" validate:"required,min=5,max=240"`
	ImageBase64     string  `json:"image_base64" validate:"omitempty,datauri"`
}

// Submit runs the create-complaint chain: validate → categorize → upload →
// fetch profile → persist. Any failure after validation aborts the whole
// operation; the complaint is guaranteed not to exist in the store, and an
// already-uploaded image is deleted best-effort so no orphaned blob remains.
func (s *Service) Submit(ctx context.Context, ident Identity, in SubmitInput) *Result {
	if ident.anonymous() {
		return failure(FailAuthentication, "Authentication Error: You must be logged in to create a complaint.")
	}

	// 1. Validation is total and side-effect free.
	if errs, err := validation.Validate(in); errs != nil || err != nil {
		return &Result{
			Kind:    FailValidation,
			Message: "Failed to create complaint. Please check the fields.",
			Errors:  errs,
		}
	}

	// 2. Categorization. The complaint is never created without a category,
	// so a failing inference call aborts before any side effect.
	catResult, err := s.ai.Categorize(ctx, ai.CategorizeInput{
		Title:        in.Title,
		Description:  in.Description,
		Location:     in.LocationAddress,
		ImageDataURI: in.ImageBase64,
	})
	if err != nil {
		return failure(FailExternal, fmt.Sprintf("Database Error: %v", err))
	}

	// 3. Image upload, keyed by student and submission time.
	var imageURL, imagePath string
	if in.ImageBase64 != "" {
		key := s.media.MakeObjectKey(ident.UserID.String(), time.Now())
		up, err := s.media.UploadDataURI(key, in.ImageBase64)
		if err != nil {
			return failure(FailExternal, fmt.Sprintf("Database Error: %v", err))
		}
		imageURL = up.URL
		imagePath = up.Path
	}

	// 4. Denormalize the submitter's profile. The snapshot is frozen at
	// creation time and never synced with later profile edits.
	profile, err := s.store.GetUserByID(ctx, ident.UserID.String())
	if err != nil {
		s.cleanupImage(imagePath)
		if err == store.ErrNotFound {
			return failure(FailNotFound, "Database Error: User profile not found.")
		}
		return failure(FailPersistence, fmt.Sprintf("Database Error: %v", err))
	}

	// 5. Persist. Status is forced to Pending regardless of input.
	c := &models.Complaint{
		Title:              in.Title,
		Description:        in.Description,
		Category:           catResult.Category,
		Status:             models.StatusPending,
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		LocationAddress:    in.LocationAddress,
		ImageURL:           imageURL,
		ImagePath:          imagePath,
		StudentID:          ident.UserID,
		StudentDisplayName: profile.DisplayName,
		StudentPhotoURL:    profile.PhotoURL,
	}
	if err := s.store.CreateComplaint(ctx, c); err != nil {
		s.cleanupImage(imagePath)
		return failure(FailPersistence, fmt.Sprintf("Database Error: %v", err))
	}

	return &Result{ID: c.ID.String(), Message: "success"}
}

// cleanupImage removes an uploaded object after a later step failed, so the
// aborted submission leaves no orphaned blob behind. Best-effort.
func (s *Service) cleanupImage(path string) {
	if path == "" {
		return
	}
	_ = s.media.Delete(path)
}

/* ============================ UpdateStatus ============================== */

type UpdateStatusInput struct {
	ComplaintID       string `json:"complaint_id" validate:"required,uuid4"`
	Status            string `json:"status" validate:"required,complaintstatus"`
	ResolutionRemarks string `json:"resolution_remarks" validate:"omitempty,max=2000"`
}

// UpdateStatus applies an admin's partial update to a complaint: status,
// updatedAt and adminId, plus resolutionRemarks only when the new status is
// Resolved and remarks were provided. Remarks are not cleared when status
// moves away from Resolved. Repeating the same call yields the same stored
// state apart from updatedAt.
func (s *Service) UpdateStatus(ctx context.Context, ident Identity, in UpdateStatusInput) *Result {
	if ident.anonymous() {
		return failure(FailAuthentication, "Authentication Error: You must be logged in.")
	}
	// Role authorization is a precondition of the workflow itself, not only
	// of the route middleware.
	if ident.Role != models.RoleAdmin {
		return failure(FailAuthorization, "Authorization Error: admin role required.")
	}

	if errs, err := validation.Validate(in); errs != nil || err != nil {
		return &Result{
			Kind:    FailValidation,
			Message: "Invalid data provided.",
			Errors:  errs,
		}
	}

	upd := store.StatusUpdate{
		Status:  models.ComplaintStatus(in.Status),
		AdminID: ident.UserID,
	}
	if upd.Status == models.StatusResolved && in.ResolutionRemarks != "" {
		remarks := in.ResolutionRemarks
		upd.ResolutionRemarks = &remarks
	}

	if err := s.store.UpdateComplaintStatus(ctx, in.ComplaintID, upd); err != nil {
		if err == store.ErrNotFound {
			return failure(FailNotFound, "Database Error: Complaint not found.")
		}
		return failure(FailPersistence, fmt.Sprintf("Database Error: %v", err))
	}

	return &Result{ID: in.ComplaintID, Message: "Status updated successfully."}
}

/* ============================= Summarize ================================ */

// SummaryResult mirrors the inline rendering contract: either Summary or
// Error is set, never both. A missing complaint is reported as an error
// string, not a raised error.
type SummaryResult struct {
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Summarize recomputes a short summary of a complaint on every request.
// Summaries are ephemeral and never persisted.
func (s *Service) Summarize(ctx context.Context, complaintID string) SummaryResult {
	c, err := s.store.GetComplaintByID(ctx, complaintID)
	if err != nil {
		if err == store.ErrNotFound {
			return SummaryResult{Error: "Complaint not found."}
		}
		return SummaryResult{Error: "Failed to generate summary."}
	}

	summary, err := s.ai.Summarize(ctx, ai.SummarizeInput{
		Title:       c.Title,
		Description: c.Description,
		Category:    string(c.Category),
		Location:    c.LocationAddress,
	})
	if err != nil {
		return SummaryResult{Error: "Failed to generate summary."}
	}
	return SummaryResult{Summary: summary}
}
