package models

import (
	"time"

	"github.com/google/uuid"
)

/* =============================== Enums ================================== */

// Role defines the type of user in the system.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ComplaintCategory is assigned exactly once, at creation, by the AI
// categorizer. It is never user-editable.
type ComplaintCategory string

const (
	CategoryMaintenance ComplaintCategory = "Maintenance"
	CategoryCleanliness ComplaintCategory = "Cleanliness"
	CategorySafety      ComplaintCategory = "Safety"
	CategoryWater       ComplaintCategory = "Water"
	CategoryElectricity ComplaintCategory = "Electricity"
	CategoryOther       ComplaintCategory = "Other"
)

// ComplaintCategories lists every valid category, in display order.
var ComplaintCategories = []ComplaintCategory{
	CategoryMaintenance, CategoryCleanliness, CategorySafety,
	CategoryWater, CategoryElectricity, CategoryOther,
}

// ValidCategory reports whether s names a known category.
func ValidCategory(s string) bool {
	for _, c := range ComplaintCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// ComplaintStatus defines lifecycle states for a complaint. Progression
// Pending → In Progress → Resolved is a UI convention, not enforced here.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
)

// ComplaintStatuses lists every valid status.
var ComplaintStatuses = []ComplaintStatus{StatusPending, StatusInProgress, StatusResolved}

// ValidStatus reports whether s names a known status.
func ValidStatus(s string) bool {
	for _, st := range ComplaintStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

/* =============================== Entities =============================== */

// User represents a student or admin.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	DisplayName  string    `gorm:"not null" json:"display_name"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Complaint is the central entity: submitted by a student, triaged by admins,
// never deleted. StudentDisplayName/StudentPhotoURL are a snapshot of the
// submitter's profile at creation time and are not kept in sync afterwards.
type Complaint struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string            `gorm:"not null" json:"title"`
	Description string            `gorm:"not null" json:"description"`
	Category    ComplaintCategory `gorm:"type:varchar(20);not null" json:"category"`
	Status      ComplaintStatus   `gorm:"type:varchar(20);default:'Pending'" json:"status"`

	Latitude        float64 `gorm:"not null" json:"latitude"`
	Longitude       float64 `gorm:"not null" json:"longitude"`
	LocationAddress string  `gorm:"not null" json:"location_address"`

	ImageURL  string `json:"image_url,omitempty"`
	ImagePath string `json:"image_path,omitempty"`

	// Only meaningful while Status is Resolved; not cleared when status
	// moves away from Resolved.
	ResolutionRemarks string `json:"resolution_remarks,omitempty"`

	StudentID          uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	StudentDisplayName string    `json:"student_display_name"`
	StudentPhotoURL    string    `json:"student_photo_url,omitempty"`

	// Last admin who updated the status.
	AdminID *uuid.UUID `gorm:"type:uuid" json:"admin_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
