// Package store owns all access to the complaint and user documents. The
// workflow never keeps an authoritative in-memory copy; every read goes back
// to the database, and every write publishes a change event so live views
// can refresh.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/campuscare/campus-care-backend/pkg/models"
)

var ErrNotFound = errors.New("record not found")

// StatusUpdate is the partial write applied by updateComplaintStatus. Only
// the fields present here are touched; ResolutionRemarks nil means "leave
// the stored value untouched".
type StatusUpdate struct {
	Status            models.ComplaintStatus
	ResolutionRemarks *string
	AdminID           uuid.UUID
}

// ComplaintFilter narrows list queries. A nil StudentID means no owner
// filter (admin view).
type ComplaintFilter struct {
	StudentID *uuid.UUID
	Status    string
	Category  string
}

// DashboardStats are the aggregate counts shown on the admin dashboard.
type DashboardStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByCategory map[string]int64 `json:"by_category"`
}

type Store interface {
	CreateComplaint(ctx context.Context, c *models.Complaint) error
	GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id string, upd StatusUpdate) error
	ListComplaints(ctx context.Context, f ComplaintFilter, page, size int) ([]models.Complaint, int64, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)

	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
