package handler

import (
	"net/http"
	"time"

	"github.com/masouza/yard-register/internal/domain"
)

// handleReport handles GET /registrations/report.
// Accepts the same filters as the list endpoint and responds with a
// paginated PDF table of the matching registrations.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.Filter{
		Carrier:       q.Get("carrier"),
		Client:        q.Get("client"),
		OperationType: domain.OperationType(q.Get("operation_type")),
		Status:        domain.Status(q.Get("status")),
	}

	pdf, err := s.reports.Render(r.Context(), filter)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	filename := "yard_report_" + time.Now().UTC().Format("2006-01-02") + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
