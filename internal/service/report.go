package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/masouza/yard-register/internal/domain"
	"github.com/masouza/yard-register/internal/metrics"
	"github.com/masouza/yard-register/internal/repo"
)

// Report layout constants. The row budget and truncation width bound the
// table so long carrier or client names never overflow their column.
const (
	reportRowsPerPage = 25
	reportCellWidth   = 20 // max characters per text cell
	reportMaxRows     = 5000
)

// ReportService renders a filtered registration set into a paginated PDF
// table: title block, applied filters, repeated column headers, and a
// "Page X of Y" footer with the total record count.
type ReportService struct {
	repo repo.RegistrationRepo
}

// NewReportService constructs a ReportService backed by the provided repo.
func NewReportService(r repo.RegistrationRepo) *ReportService {
	return &ReportService{repo: r}
}

// Render fetches every registration matching the filter, most recent
// arrival first, and returns the rendered PDF bytes.
func (s *ReportService) Render(ctx context.Context, filter domain.Filter) ([]byte, error) {
	start := time.Now()

	regs, _, err := s.repo.List(ctx, filter, domain.PaginationParams{Page: 1, Limit: reportMaxRows})
	if err != nil {
		return nil, fmt.Errorf("service.ReportService.Render: %w", err)
	}

	var buf bytes.Buffer
	if err := buildReport(&buf, regs, filter, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("service.ReportService.Render: %w", err)
	}

	metrics.ReportRenderDuration.Observe(time.Since(start).Seconds())
	return buf.Bytes(), nil
}

// buildReport writes the PDF document for the given registrations.
// generatedAt is a parameter so tests can render deterministically.
func buildReport(buf *bytes.Buffer, regs []domain.Registration, filter domain.Filter, generatedAt time.Time) error {
	// The departure column only appears when the report is scoped to
	// departed registrations; for mixed or at-yard views it is noise.
	withDeparture := filter.Status == domain.StatusDeparted

	headers := []string{"Arrived", "Driver", "Carrier", "Trailer", "Client", "Operation", "Status"}
	widths := []float64{30, 26, 26, 20, 26, 20, 18}
	if withDeparture {
		headers = append(headers, "Departed")
		widths = append(widths, 30)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Yard Access Report", false)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(107, 114, 128)
		pdf.CellFormat(95, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 10, fmt.Sprintf("Total records: %d", len(regs)), "", 0, "R", false, 0, "")
	})

	writeHeaderRow := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetTextColor(0, 0, 0)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 6, h, "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 7)
	}

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(31, 41, 55)
	pdf.CellFormat(0, 10, "Yard Access Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 6, "Generated at: "+generatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if lines := filterLines(filter); len(lines) > 0 {
		pdf.CellFormat(0, 6, "Applied filters:", "", 1, "L", false, 0, "")
		for _, line := range lines {
			pdf.CellFormat(0, 5, "  - "+line, "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	writeHeaderRow()

	rowsOnPage := 0
	for _, reg := range regs {
		if rowsOnPage == reportRowsPerPage {
			pdf.AddPage()
			writeHeaderRow()
			rowsOnPage = 0
		}

		cells := []string{
			reg.ArrivedAt.Format("02/01/2006 15:04"),
			truncate(reg.DriverName, reportCellWidth),
			truncate(reg.Carrier, reportCellWidth),
			reg.TrailerPlate,
			truncate(reg.Client, reportCellWidth),
			string(reg.OperationType),
			string(reg.Status),
		}
		if withDeparture {
			departed := "-"
			if reg.DepartedAt != nil {
				departed = reg.DepartedAt.Format("02/01/2006 15:04")
			}
			cells = append(cells, departed)
		}

		for i, c := range cells {
			pdf.CellFormat(widths[i], 5, c, "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		rowsOnPage++
	}

	return pdf.Output(buf)
}

// filterLines renders the active filters as human-readable lines, one per
// set field, in a fixed order.
func filterLines(filter domain.Filter) []string {
	var lines []string
	if filter.Carrier != "" {
		lines = append(lines, "Carrier: "+filter.Carrier)
	}
	if filter.Client != "" {
		lines = append(lines, "Client: "+filter.Client)
	}
	if filter.OperationType != "" {
		lines = append(lines, "Operation type: "+string(filter.OperationType))
	}
	if filter.Status != "" {
		lines = append(lines, "Status: "+string(filter.Status))
	}
	return lines
}

// truncate bounds s to max characters for display in a fixed-width cell.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
