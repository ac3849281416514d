package usecase

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/infra/database/memory"
	"github.com/xavierca1/lead-portal/internal/infra/mail"
	"github.com/xavierca1/lead-portal/internal/infra/queue"
	"github.com/xavierca1/lead-portal/internal/session"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) DispatchCoupon(ctx context.Context, msg mail.CouponEmail) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishAssistedSale(ctx context.Context, event queue.AssistedSaleEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type fixture struct {
	db       *memory.DB
	leads    *memory.LeadRepository
	settings *memory.SettingsRepository
	log      logrus.FieldLogger
	hook     *test.Hook
}

func newFixture() *fixture {
	db := memory.Open(entity.DefaultSettings())
	logger, hook := test.NewNullLogger()
	return &fixture{
		db:       db,
		leads:    memory.NewLeadRepository(db),
		settings: memory.NewSettingsRepository(db),
		log:      logger,
		hook:     hook,
	}
}

var (
	adminSession   = &entity.Session{ID: "admin_001", Email: "admin@pw.live", Role: entity.RoleAdmin, Name: "Master Ambassador"}
	studentSession = &entity.Session{ID: "student_abc123", Email: "sneha@example.com", Role: entity.RoleStudent, Name: "sneha"}
)

func asAdmin() context.Context {
	return session.WithSession(context.Background(), adminSession)
}

func asStudent() context.Context {
	return session.WithSession(context.Background(), studentSession)
}

func validInput() LeadInput {
	return LeadInput{
		Name:     "Aryan Singh",
		Email:    "aryan@student.com",
		Mobile:   "98765 43210",
		Category: "JEE (Main + Advanced)",
		Class:    "Class 12",
		Batch:    "Lakshya JEE 2026",
	}
}
