package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/campuscare/campus-care-backend/pkg/models"
)

// Service implements Store on PostgreSQL via gorm. Writes publish change
// events through the notifier; a nil notifier disables notifications (tests).
type Service struct {
	DB       *gorm.DB
	Notifier *Notifier
}

func NewService(db *gorm.DB, n *Notifier) *Service {
	return &Service{DB: db, Notifier: n}
}

func (s *Service) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	s.notify(ctx, Event{
		Kind:        EventCreated,
		ComplaintID: c.ID.String(),
		StudentID:   c.StudentID.String(),
	})
	return nil
}

func (s *Service) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	var c models.Complaint
	if err := s.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// UpdateComplaintStatus applies the partial update as a single document
// write. Concurrent updates on the same complaint are last-write-wins.
func (s *Service) UpdateComplaintStatus(ctx context.Context, id string, upd StatusUpdate) error {
	existing, err := s.GetComplaintByID(ctx, id)
	if err != nil {
		return err
	}

	fields := map[string]any{
		"status":     upd.Status,
		"admin_id":   upd.AdminID,
		"updated_at": time.Now().UTC(),
	}
	if upd.ResolutionRemarks != nil {
		fields["resolution_remarks"] = *upd.ResolutionRemarks
	}

	if err := s.DB.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return err
	}

	s.notify(ctx, Event{
		Kind:        EventStatusUpdated,
		ComplaintID: id,
		StudentID:   existing.StudentID.String(),
	})
	return nil
}

func (s *Service) ListComplaints(ctx context.Context, f ComplaintFilter, page, size int) ([]models.Complaint, int64, error) {
	dbq := s.DB.WithContext(ctx).Model(&models.Complaint{})
	if f.StudentID != nil {
		dbq = dbq.Where("student_id = ?", *f.StudentID)
	}
	if f.Status != "" {
		dbq = dbq.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		dbq = dbq.Where("category = ?", f.Category)
	}

	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	list := make([]models.Complaint, 0, size)
	if err := dbq.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		ByStatus:   make(map[string]int64),
		ByCategory: make(map[string]int64),
	}

	if err := s.DB.WithContext(ctx).Model(&models.Complaint{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key string
		N   int64
	}

	var byStatus []bucket
	if err := s.DB.WithContext(ctx).Model(&models.Complaint{}).
		Select("status AS key, COUNT(*) AS n").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Key] = b.N
	}

	var byCategory []bucket
	if err := s.DB.WithContext(ctx).Model(&models.Complaint{}).
		Select("category AS key, COUNT(*) AS n").
		Group("category").
		Scan(&byCategory).Error; err != nil {
		return nil, err
	}
	for _, b := range byCategory {
		stats.ByCategory[b.Key] = b.N
	}

	return stats, nil
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// notify is best-effort: a failed publish only delays live views until their
// next refresh, it never fails the write that already happened.
func (s *Service) notify(ctx context.Context, ev Event) {
	if s.Notifier == nil {
		return
	}
	_ = s.Notifier.Publish(ctx, ev)
}
