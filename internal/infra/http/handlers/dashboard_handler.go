package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/usecase"
)

type DashboardHandler struct {
	dashboard *usecase.DashboardUseCase
	log       logrus.FieldLogger
}

func NewDashboardHandler(dashboard *usecase.DashboardUseCase, log logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, log: log}
}

// Admin handles GET /dashboard/admin?method=&q=.
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	view, err := h.dashboard.Admin(r.Context(), q.Get("method"), q.Get("q"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Student handles GET /dashboard/student.
func (h *DashboardHandler) Student(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboard.Student(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type CatalogResponse struct {
	Statuses       []entity.StatusDisplayInfo `json:"statuses"`
	ExamCategories []string                   `json:"exam_categories"`
	Classes        []string                   `json:"classes"`
}

// Lifecycle handles GET /lifecycle: the status table plus the option lists
// the intake forms offer.
func Lifecycle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CatalogResponse{
		Statuses:       entity.Lifecycle(),
		ExamCategories: entity.ExamCategories,
		Classes:        entity.Classes,
	})
}
