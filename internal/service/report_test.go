package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masouza/yard-register/internal/domain"
	"github.com/masouza/yard-register/internal/service"
)

// reportFixtures returns n registrations with staggered arrivals.
func reportFixtures(n int) []domain.Registration {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	regs := make([]domain.Registration, n)
	for i := range regs {
		regs[i] = domain.Registration{
			ID:              uuid.New(),
			ArrivedAt:       base.Add(time.Duration(i) * time.Minute),
			Carrier:         "A Carrier With A Rather Long Name",
			Client:          "Acme Foods",
			TrailerPlate:    "ABC-1234",
			DriverName:      "John Driver",
			DriverDocument:  "12.345.678-9",
			OperationType:   domain.OperationUnload,
			DriverSignature: "data:image/png;base64,aGVsbG8=",
			Status:          domain.StatusAtYard,
		}
	}
	return regs
}

func reportRepo(regs []domain.Registration) *mockRegistrationRepo {
	return &mockRegistrationRepo{
		list: func(_ context.Context, _ domain.Filter, _ domain.PaginationParams) ([]domain.Registration, int64, error) {
			return regs, int64(len(regs)), nil
		},
	}
}

func TestReportService_Render_ProducesPDF(t *testing.T) {
	svc := service.NewReportService(reportRepo(reportFixtures(3)))

	out, err := svc.Render(context.Background(), domain.Filter{})

	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]), "output should be a PDF document")
}

func TestReportService_Render_EmptySet(t *testing.T) {
	svc := service.NewReportService(reportRepo(nil))

	out, err := svc.Render(context.Background(), domain.Filter{})

	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]), "an empty set still renders a valid document")
}

func TestReportService_Render_ManyRowsPaginates(t *testing.T) {
	// Three pages worth of rows; rendering must not error and the document
	// grows with the row count.
	small, err := service.NewReportService(reportRepo(reportFixtures(3))).Render(context.Background(), domain.Filter{})
	require.NoError(t, err)

	large, err := service.NewReportService(reportRepo(reportFixtures(70))).Render(context.Background(), domain.Filter{})
	require.NoError(t, err)

	assert.Greater(t, len(large), len(small))
}

func TestReportService_Render_DepartedFilter(t *testing.T) {
	regs := reportFixtures(2)
	departed := regs[0].ArrivedAt.Add(4 * time.Hour)
	for i := range regs {
		regs[i].Status = domain.StatusDeparted
		regs[i].DepartedAt = &departed
		regs[i].ResponsibleSignature = "data:image/png;base64,c2ln"
	}
	svc := service.NewReportService(reportRepo(regs))

	out, err := svc.Render(context.Background(), domain.Filter{Status: domain.StatusDeparted})

	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
