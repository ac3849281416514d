package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/infra/integration/whatsapp"
)

const (
	FilterAll           = "all"
	FilterCouponRequest = string(entity.MethodCouponRequest)
	FilterAssistedSale  = string(entity.MethodAssistedSale)
)

type Summary struct {
	Total          int     `json:"total"`
	Today          int     `json:"today"`
	Assisted       int     `json:"assisted"`
	Converted      int     `json:"converted"`
	ConversionRate float64 `json:"conversion_rate"`
	Priority       int     `json:"priority"`
}

// Summarize counts leads. "Today" compares calendar days in now's location.
func Summarize(leads []entity.Lead, now time.Time) Summary {
	var s Summary
	y, m, d := now.Date()

	for _, l := range leads {
		s.Total++
		ly, lm, ld := l.CreatedAt.In(now.Location()).Date()
		if ly == y && lm == m && ld == d {
			s.Today++
		}
		if l.Method == entity.MethodAssistedSale {
			s.Assisted++
		}
		if l.Status == entity.StatusConverted {
			s.Converted++
		}
		if IsPriority(l) {
			s.Priority++
		}
	}

	if s.Total > 0 {
		s.ConversionRate = float64(s.Converted) / float64(s.Total) * 100
	}
	return s
}

// FilterByMethod keeps leads matching filter. An empty filter means all.
func FilterByMethod(leads []entity.Lead, filter string) ([]entity.Lead, error) {
	switch filter {
	case "", FilterAll:
		return leads, nil
	case FilterCouponRequest, FilterAssistedSale:
	default:
		return nil, ValidationError{"method", "must be all, coupon_request or assisted_sale"}
	}

	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if string(l.Method) == filter {
			out = append(out, l)
		}
	}
	return out, nil
}

// Search matches term case-insensitively against name, mobile and batch.
func Search(leads []entity.Lead, term string) []entity.Lead {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return leads
	}

	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if strings.Contains(strings.ToLower(l.Name), term) ||
			strings.Contains(strings.ToLower(l.Mobile), term) ||
			strings.Contains(strings.ToLower(l.Batch), term) {
			out = append(out, l)
		}
	}
	return out
}

// IsPriority flags assisted-sale leads nobody has moved past first contact.
func IsPriority(l entity.Lead) bool {
	return l.Method == entity.MethodAssistedSale &&
		(l.Status == entity.StatusNew || l.Status == entity.StatusContacted)
}

func Priority(leads []entity.Lead) []entity.Lead {
	out := []entity.Lead{}
	for _, l := range leads {
		if IsPriority(l) {
			out = append(out, l)
		}
	}
	return out
}

type AdminLeadRow struct {
	entity.Lead
	Display     entity.StatusDisplayInfo `json:"display"`
	Priority    bool                     `json:"priority"`
	ContactLink string                   `json:"contact_link"`
	Details     string                   `json:"details"`
}

type AdminView struct {
	Stats    Summary         `json:"stats"`
	Filter   string          `json:"filter"`
	Search   string          `json:"search"`
	Leads    []AdminLeadRow  `json:"leads"`
	Priority []entity.Lead   `json:"priority"`
	Settings entity.Settings `json:"settings"`
}

// BuildAdminView computes stats over every lead and lists the leads that
// pass both the method filter and the search term.
func BuildAdminView(leads []entity.Lead, settings entity.Settings, filter, term string, now time.Time) (*AdminView, error) {
	filtered, err := FilterByMethod(leads, filter)
	if err != nil {
		return nil, err
	}
	filtered = Search(filtered, term)

	if filter == "" {
		filter = FilterAll
	}

	rows := make([]AdminLeadRow, 0, len(filtered))
	for _, l := range filtered {
		rows = append(rows, AdminLeadRow{
			Lead:        l,
			Display:     entity.GetStatusDisplayInfo(l.Status),
			Priority:    IsPriority(l),
			ContactLink: whatsapp.BuildChatLink(l.Mobile, ""),
			Details:     leadDetails(l),
		})
	}

	return &AdminView{
		Stats:    Summarize(leads, now),
		Filter:   filter,
		Search:   strings.TrimSpace(term),
		Leads:    rows,
		Priority: Priority(leads),
		Settings: settings,
	}, nil
}

// leadDetails is the plain-text card an ambassador pastes into a chat.
func leadDetails(l entity.Lead) string {
	return fmt.Sprintf("Name: %s\nPhone: %s\nExam: %s\nBatch: %s", l.Name, l.Mobile, l.Category, l.Batch)
}

type ProgressStep struct {
	Status    entity.Status `json:"status"`
	Label     string        `json:"label"`
	Completed bool          `json:"completed"`
	Current   bool          `json:"current"`
}

type TrackedLead struct {
	Lead        entity.Lead    `json:"lead"`
	Label       string         `json:"label"`
	Instruction string         `json:"instruction"`
	Progress    float64        `json:"progress"`
	Steps       []ProgressStep `json:"steps"`
	ChatLink    string         `json:"chat_link"`
}

type StudentView struct {
	Session        entity.Session `json:"session"`
	Leads          []entity.Lead  `json:"leads"`
	Tracked        *TrackedLead   `json:"tracked,omitempty"`
	AmbassadorName string         `json:"ambassador_name"`
}

// BuildStudentView tracks the student's most recent assisted-sale lead.
// Tracked is nil when the student has none.
func BuildStudentView(s entity.Session, leads []entity.Lead, settings entity.Settings) *StudentView {
	view := &StudentView{
		Session:        s,
		Leads:          leads,
		AmbassadorName: settings.AmbassadorName,
	}

	var latest *entity.Lead
	for i := range leads {
		l := &leads[i]
		if l.Method != entity.MethodAssistedSale {
			continue
		}
		if latest == nil || !l.CreatedAt.Before(latest.CreatedAt) {
			latest = l
		}
	}
	if latest == nil {
		return view
	}

	info := entity.GetStatusDisplayInfo(latest.Status)
	view.Tracked = &TrackedLead{
		Lead:        *latest,
		Label:       info.Label,
		Instruction: info.Instruction,
		Progress:    info.Progress,
		Steps:       progressSteps(latest.Status),
		ChatLink:    whatsapp.BuildChatLink(settings.WhatsAppNumber, TrackingMessage(settings, s, latest)),
	}
	return view
}

func progressSteps(current entity.Status) []ProgressStep {
	idx := current.StepIndex()
	steps := make([]ProgressStep, 0, len(entity.ProgressSteps))
	for i, st := range entity.ProgressSteps {
		steps = append(steps, ProgressStep{
			Status:    st,
			Label:     entity.GetStatusDisplayInfo(st).Label,
			Completed: idx >= i,
			Current:   st == current,
		})
	}
	return steps
}

func TrackingMessage(settings entity.Settings, s entity.Session, lead *entity.Lead) string {
	return fmt.Sprintf("Hi %s, I am logged in as %s. My Lead ID is %s. I am tracking my application for %s.",
		settings.AmbassadorName, s.Name, lead.ID, lead.Batch)
}

type DashboardUseCase struct {
	Leads    entity.LeadRepository
	Settings entity.SettingsRepository
	now      func() time.Time
}

func NewDashboardUseCase(leads entity.LeadRepository, settings entity.SettingsRepository) *DashboardUseCase {
	return &DashboardUseCase{Leads: leads, Settings: settings, now: time.Now}
}

func (uc *DashboardUseCase) Admin(ctx context.Context, filter, term string) (*AdminView, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	leads, err := uc.Leads.ListAll(ctx)
	if err != nil {
		return nil, &CollaboratorError{Op: "list leads", Err: err}
	}
	settings, err := uc.Settings.Get(ctx)
	if err != nil {
		return nil, &CollaboratorError{Op: "load settings", Err: err}
	}

	return BuildAdminView(leads, settings, filter, term, uc.now())
}

func (uc *DashboardUseCase) Student(ctx context.Context) (*StudentView, error) {
	s, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	leads, err := uc.Leads.ListByOwner(ctx, s.ID)
	if err != nil {
		return nil, &CollaboratorError{Op: "list own leads", Err: err}
	}
	settings, err := uc.Settings.Get(ctx)
	if err != nil {
		return nil, &CollaboratorError{Op: "load settings", Err: err}
	}

	return BuildStudentView(*s, leads, settings), nil
}
