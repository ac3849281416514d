package usecase

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/lead-portal/internal/entity"
)

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func lead(id, name, batch string, method entity.Method, status entity.Status, created time.Time) entity.Lead {
	return entity.Lead{
		ID:        id,
		Name:      name,
		Mobile:    "9876543210",
		Category:  "NEET (UG)",
		Class:     "Class 12",
		Batch:     batch,
		Method:    method,
		Status:    status,
		CreatedAt: created,
	}
}

func sampleLeads() []entity.Lead {
	return []entity.Lead{
		lead("1", "Aryan", "Lakshya NEET 2026", entity.MethodCouponRequest, entity.StatusNew, now.Add(-time.Hour)),
		lead("2", "Sneha", "Foundation Batch", entity.MethodCouponRequest, entity.StatusConverted, now.Add(-48*time.Hour)),
		lead("3", "Rahul", "Arjuna JEE 2027", entity.MethodAssistedSale, entity.StatusNew, now.Add(-2*time.Hour)),
		lead("4", "Priya", "Yakeen NEET 2026", entity.MethodAssistedSale, entity.StatusContacted, now.Add(-30*time.Hour)),
		lead("5", "Kabir", "Prayas JEE 2026", entity.MethodAssistedSale, entity.StatusConverted, now.Add(-72*time.Hour)),
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleLeads(), now)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Today)
	assert.Equal(t, 3, s.Assisted)
	assert.Equal(t, 2, s.Converted)
	assert.Equal(t, 2, s.Priority)
	assert.InDelta(t, 40.0, s.ConversionRate, 0.001)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, now)
	assert.Equal(t, Summary{}, s)
	assert.Zero(t, s.ConversionRate)
}

func TestSummarizeTodayUsesCalendarDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	localNow := time.Date(2026, 3, 11, 1, 0, 0, 0, ist)

	// 20:00 UTC on the 10th is 01:30 on the 11th in IST
	leads := []entity.Lead{
		lead("1", "A", "B", entity.MethodCouponRequest, entity.StatusNew, time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)),
		lead("2", "A", "B", entity.MethodCouponRequest, entity.StatusNew, time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)),
	}

	assert.Equal(t, 1, Summarize(leads, localNow).Today)
}

func TestFilterByMethod(t *testing.T) {
	leads := sampleLeads()

	assisted, err := FilterByMethod(leads, FilterAssistedSale)
	require.NoError(t, err)
	assert.Len(t, assisted, 3)

	coupon, err := FilterByMethod(leads, FilterCouponRequest)
	require.NoError(t, err)
	assert.Len(t, coupon, 2)

	all, err := FilterByMethod(leads, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = FilterByMethod(leads, "vip")
	assert.True(t, IsValidationError(err))
}

func TestSearch(t *testing.T) {
	leads := []entity.Lead{
		lead("1", "Aryan", "Lakshya NEET 2026", entity.MethodCouponRequest, entity.StatusNew, now),
		lead("2", "Sneha", "Foundation Batch", entity.MethodCouponRequest, entity.StatusNew, now),
	}

	got := Search(leads, "neet")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	assert.Len(t, Search(leads, "SNEHA"), 1)
	assert.Len(t, Search(leads, "98765"), 2)
	assert.Len(t, Search(leads, "  "), 2)
	assert.Empty(t, Search(leads, "upsc"))
}

func TestPriority(t *testing.T) {
	got := Priority(sampleLeads())
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "4", got[1].ID)
}

func TestBuildAdminView(t *testing.T) {
	view, err := BuildAdminView(sampleLeads(), entity.DefaultSettings(), FilterAssistedSale, "jee", now)
	require.NoError(t, err)

	assert.Equal(t, 5, view.Stats.Total, "stats cover every lead")
	assert.Equal(t, FilterAssistedSale, view.Filter)
	require.Len(t, view.Leads, 2)
	assert.Equal(t, "3", view.Leads[0].ID)
	assert.True(t, view.Leads[0].Priority)
	assert.Equal(t, "Request Received", view.Leads[0].Display.Label)
	assert.Equal(t, "https://wa.me/9876543210", view.Leads[0].ContactLink)
	assert.Contains(t, view.Leads[0].Details, "Batch: Arjuna JEE 2027")
	assert.False(t, view.Leads[1].Priority)
	assert.Len(t, view.Priority, 2)
}

func TestBuildStudentView(t *testing.T) {
	s := entity.Session{ID: "student_1", Role: entity.RoleStudent, Name: "rahul"}
	leads := []entity.Lead{
		lead("old", "Rahul", "Arjuna JEE 2027", entity.MethodAssistedSale, entity.StatusConverted, now.Add(-72*time.Hour)),
		lead("new", "Rahul", "Lakshya JEE 2026", entity.MethodAssistedSale, entity.StatusOTPSent, now.Add(-time.Hour)),
		lead("coupon", "Rahul", "Foundation Batch", entity.MethodCouponRequest, entity.StatusNew, now),
	}

	view := BuildStudentView(s, leads, entity.DefaultSettings())
	require.NotNil(t, view.Tracked)

	tracked := view.Tracked
	assert.Equal(t, "new", tracked.Lead.ID)
	assert.Equal(t, "Verification Call", tracked.Label)
	assert.InDelta(t, 60.0, tracked.Progress, 0.001)
	require.Len(t, tracked.Steps, 5)
	assert.True(t, tracked.Steps[2].Completed)
	assert.True(t, tracked.Steps[2].Current)
	assert.False(t, tracked.Steps[3].Completed)

	u, err := url.Parse(tracked.ChatLink)
	require.NoError(t, err)
	assert.Equal(t, "/919000000000", u.Path)
	assert.Equal(t,
		"Hi Yugal (Official Ambassador), I am logged in as rahul. My Lead ID is new. I am tracking my application for Lakshya JEE 2026.",
		u.Query().Get("text"))
}

func TestBuildStudentViewClosedAndEmpty(t *testing.T) {
	s := entity.Session{ID: "student_1", Role: entity.RoleStudent}

	empty := BuildStudentView(s, nil, entity.DefaultSettings())
	assert.Nil(t, empty.Tracked)

	closed := BuildStudentView(s, []entity.Lead{
		lead("x", "R", "B", entity.MethodAssistedSale, entity.StatusClosed, now),
	}, entity.DefaultSettings())
	require.NotNil(t, closed.Tracked)
	assert.Zero(t, closed.Tracked.Progress)
	for _, step := range closed.Tracked.Steps {
		assert.False(t, step.Completed)
		assert.False(t, step.Current)
	}
}

func TestDashboardUseCase(t *testing.T) {
	f := newFixture()
	ids := seedLeads(t, f)
	uc := NewDashboardUseCase(f.leads, f.settings)
	uc.now = func() time.Time { return now }

	_, err := uc.Admin(asStudent(), "", "")
	assert.ErrorIs(t, err, ErrForbidden)

	admin, err := uc.Admin(asAdmin(), "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, admin.Stats.Total)

	_, err = uc.Student(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	student, err := uc.Student(asStudent())
	require.NoError(t, err)
	require.NotNil(t, student.Tracked)
	assert.Equal(t, ids[1], student.Tracked.Lead.ID)
}
