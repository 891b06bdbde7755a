package complaints_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/campuscare/campus-care-backend/internal/ai"
	"github.com/campuscare/campus-care-backend/internal/storage"
	"github.com/campuscare/campus-care-backend/internal/store"
	"github.com/campuscare/campus-care-backend/pkg/models"
)

/* =============================== Store ================================== */

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStore) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStore) UpdateComplaintStatus(ctx context.Context, id string, upd store.StatusUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockStore) ListComplaints(ctx context.Context, f store.ComplaintFilter, page, size int) ([]models.Complaint, int64, error) {
	args := m.Called(ctx, f, page, size)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Complaint), args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) Dashboard(ctx context.Context) (*store.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.DashboardStats), args.Error(1)
}

func (m *MockStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

/* ============================ Media store =============================== */

type MockMedia struct {
	mock.Mock
}

func (m *MockMedia) MakeObjectKey(studentID string, at time.Time) string {
	args := m.Called(studentID, at)
	return args.String(0)
}

func (m *MockMedia) UploadDataURI(key, dataURI string) (*storage.UploadResult, error) {
	args := m.Called(key, dataURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *MockMedia) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

/* ============================= Inference ================================ */

type MockInference struct {
	mock.Mock
}

func (m *MockInference) Categorize(ctx context.Context, in ai.CategorizeInput) (*ai.CategorizeResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.CategorizeResult), args.Error(1)
}

func (m *MockInference) Summarize(ctx context.Context, in ai.SummarizeInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}
