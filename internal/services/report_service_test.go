package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inspection-system/internal/entities"
	"inspection-system/internal/report"
	apperrors "inspection-system/pkg/errors"
)

const newHandle = "/files/reports/svc-1-20240501083015123.pdf"

func TestReportKeyFormat(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 30, 15, 7_000_000, time.FixedZone("BRT", -3*3600))
	assert.Equal(t, "reports/abc-20240501113015007.pdf", reportKey("abc", at))
}

func TestGenerateStoresAndLinksOnce(t *testing.T) {
	h := newHarness(t)
	ctx := employeeCtx("emp-1")
	h.storage.On("Put", mock.Anything, mock.Anything, mock.Anything, "application/pdf").Return(newHandle, nil).Once()

	first, err := h.reports.Generate(ctx, "svc-1", false)
	require.NoError(t, err)
	assert.True(t, first.Regenerated)
	assert.Equal(t, newHandle, first.PdfURL)

	second, err := h.reports.Generate(ctx, "svc-1", false)
	require.NoError(t, err)
	assert.False(t, second.Regenerated)
	assert.Equal(t, newHandle, second.PdfURL)

	assert.Equal(t, 1, h.renderer.calls)
	assert.Equal(t, 1, h.services.linkCalls)
	assert.Nil(t, h.services.get("svc-1").ChecklistData.Meta, "rascunho não congela os dados")
}

func TestGenerateCapturesSnapshotForFinalizedService(t *testing.T) {
	h := newHarness(t)
	h.finalize("svc-1")
	h.storage.On("Put", mock.Anything, mock.Anything, mock.Anything, "application/pdf").Return(newHandle, nil).Once()

	_, err := h.reports.Generate(employeeCtx("emp-1"), "svc-1", false)
	require.NoError(t, err)

	stored := h.services.get("svc-1")
	require.NotNil(t, stored.ChecklistData.Meta)
	assert.Equal(t, "ABC1D23", stored.ChecklistData.Meta.VehicleDetails.Plate)
	assert.Equal(t, "joao", stored.ChecklistData.Meta.EmployeeDetails.Username)
}

func TestGenerateRendersResolvedAnswers(t *testing.T) {
	h := newHarness(t)
	stale := entities.Answers{}
	stale.Set(secExt, itemPnt, "Amassado")
	stale.Set(secExt, itemTire, "Trocar")
	require.NoError(t, h.services.SaveAnswers(context.Background(), nil, "svc-1", stale))
	h.storage.On("Put", mock.Anything, mock.Anything, mock.Anything, "application/pdf").Return(newHandle, nil).Once()

	_, err := h.reports.Generate(employeeCtx("emp-1"), "svc-1", false)
	require.NoError(t, err)

	statuses := map[string]string{}
	for _, r := range h.renderer.last.Rows() {
		statuses[r.Item] = r.Status
	}
	assert.Equal(t, "ABC1D23", statuses["Placa"])
	assert.Equal(t, report.Unanswered, statuses["Pintura"])
	assert.Equal(t, "Trocar", statuses["Pneus"])
	assert.NotEqual(t, report.Unanswered, statuses["Data e hora da inspeção"])
}

func TestGenerateUsesStoredSnapshot(t *testing.T) {
	h := newHarness(t)
	h.setReport("svc-1", "/files/reports/old.pdf", &entities.Snapshot{
		ClientDetails:  entities.ClientDetails{Name: "Cliente Antigo"},
		VehicleDetails: entities.VehicleDetails{Type: "Moto", ModelYear: "CG 2010", Plate: "OLD1234"},
	})
	h.storage.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(newHandle, nil).Once()
	h.storage.On("Delete", mock.Anything, "/files/reports/old.pdf").Return(nil).Once()

	_, err := h.reports.Generate(adminCtx(), "svc-1", true)
	require.NoError(t, err)

	assert.Contains(t, vehicleLinesOf(h.renderer.last), "Placa: OLD1234")
	stored := h.services.get("svc-1")
	assert.Equal(t, "OLD1234", stored.ChecklistData.Meta.VehicleDetails.Plate)
	assert.Equal(t, newHandle, stored.PdfURL.String)
}

func TestForcedRegenerationToleratesCleanupFailure(t *testing.T) {
	h := newHarness(t)
	h.setReport("svc-1", "/files/reports/old.pdf", nil)
	h.storage.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(newHandle, nil).Once()
	h.storage.On("Delete", mock.Anything, "/files/reports/old.pdf").Return(apperrors.ErrObjectMissing).Once()

	res, err := h.reports.Generate(adminCtx(), "svc-1", true)
	require.NoError(t, err)
	assert.Equal(t, newHandle, res.PdfURL)
}

func TestGenerateRenderFailureLeavesReportUntouched(t *testing.T) {
	h := newHarness(t)
	h.setReport("svc-1", "/files/reports/old.pdf", nil)
	h.renderer.err = fmt.Errorf("%w: timeout", apperrors.ErrRenderFailed)

	_, err := h.reports.Generate(adminCtx(), "svc-1", true)
	assert.ErrorIs(t, err, apperrors.ErrRenderFailed)

	assert.Equal(t, "/files/reports/old.pdf", h.services.get("svc-1").PdfURL.String)
	assert.Zero(t, h.services.linkCalls)
	h.storage.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateStorageFailureDoesNotLink(t *testing.T) {
	h := newHarness(t)
	h.storage.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bucket indisponível")).Once()

	_, err := h.reports.Generate(adminCtx(), "svc-1", false)
	assert.ErrorIs(t, err, apperrors.ErrStorageFailed)
	assert.Zero(t, h.services.linkCalls)
	assert.False(t, h.services.get("svc-1").PdfURL.Valid)
}

func TestGenerateLinkFailureReturnsHandleForRetry(t *testing.T) {
	h := newHarness(t)
	h.storage.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(newHandle, nil).Once()
	h.services.linkErr = errors.New("conexão perdida")

	_, err := h.reports.Generate(adminCtx(), "svc-1", false)
	var linkErr *apperrors.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, newHandle, linkErr.Handle)
	assert.False(t, h.services.get("svc-1").PdfURL.Valid)

	h.services.linkErr = nil
	h.storage.On("Exists", mock.Anything, newHandle).Return(true, nil).Once()

	res, err := h.reports.Link(adminCtx(), "svc-1", linkErr.Handle)
	require.NoError(t, err)
	assert.Equal(t, newHandle, res.PdfURL)
	assert.Equal(t, newHandle, h.services.get("svc-1").PdfURL.String)
	assert.Equal(t, 1, h.renderer.calls)
}

func TestLinkRejectsMissingObject(t *testing.T) {
	h := newHarness(t)
	h.storage.On("Exists", mock.Anything, "/files/reports/nope.pdf").Return(false, nil).Once()

	_, err := h.reports.Link(adminCtx(), "svc-1", "/files/reports/nope.pdf")
	assert.ErrorIs(t, err, apperrors.ErrObjectMissing)
	assert.Zero(t, h.services.linkCalls)
}

func TestDownloadReturnsStoredBytesWithoutRendering(t *testing.T) {
	h := newHarness(t)
	h.setReport("svc-1", newHandle, &entities.Snapshot{VehicleDetails: entities.VehicleDetails{Plate: "abc 1d23"}})
	stored := []byte("%PDF-1.4 stored bytes")
	h.storage.On("Get", mock.Anything, newHandle).Return(stored, nil).Twice()

	first, name, err := h.reports.Download(employeeCtx("emp-1"), "svc-1")
	require.NoError(t, err)
	second, _, err := h.reports.Download(employeeCtx("emp-1"), "svc-1")
	require.NoError(t, err)

	assert.Equal(t, stored, first)
	assert.Equal(t, first, second)
	assert.Equal(t, "relatorio-ABC1D23-20240501.pdf", name)
	assert.Zero(t, h.renderer.calls)
}

func TestDownloadWithoutReport(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.reports.Download(employeeCtx("emp-1"), "svc-1")
	assert.ErrorIs(t, err, apperrors.ErrNoReport)

	_, _, err = h.reports.Download(employeeCtx("emp-2"), "svc-1")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
