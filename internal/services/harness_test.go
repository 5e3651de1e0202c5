package services

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"inspection-system/internal/checklist"
	"inspection-system/internal/entities"
	"inspection-system/internal/report"
)

const (
	secID    = "sec-id"
	secExt   = "sec-ext"
	itemPlat = "item-plate"
	itemTS   = "item-ts"
	itemKm   = "item-km"
	itemPnt  = "item-paint"
	itemTire = "item-tires"
)

var fixedNow = time.Date(2024, 5, 1, 8, 30, 15, 123_000_000, time.UTC)

type harness struct {
	services      *fakeServiceRepo
	vehicles      *fakeVehicleRepo
	checklistRepo *fakeChecklistRepo
	storage       *MockStorage
	renderer      *fakeRenderer
	checklists    ChecklistServiceInterface
	reports       *reportService
	inspection    *inspectionService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		vehicles: &fakeVehicleRepo{vehicles: map[string]entities.Vehicle{
			"veh-1": {
				ID: "veh-1", ClientID: null.StringFrom("cli-1"), Type: "Carro", ModelYear: "Gol 2019",
				Plate: "ABC1D23", DriverName: null.StringFrom("Ana"),
			},
		}},
		checklistRepo: &fakeChecklistRepo{
			sections: []entities.ChecklistSection{
				{ID: secExt, Title: "Condição Externa", Order: 2},
				{ID: secID, Title: "Identificação do Veículo", Order: 1},
			},
			items: []entities.ChecklistItem{
				{ID: itemPlat, SectionID: secID, Title: "Placa", Order: 1, ResponseType: entities.ResponseAutofill},
				{ID: itemTS, SectionID: secID, Title: "Data e hora da inspeção", Order: 2, ResponseType: entities.ResponseDateTime},
				{ID: itemKm, SectionID: secID, Title: "KM Atual", Order: 3, ResponseType: entities.ResponseText},
				{ID: itemPnt, SectionID: secExt, Title: "Pintura", Order: 1, ResponseType: entities.ResponseOptions, Options: []string{"Ok", "Arranhões"}},
				{ID: itemTire, SectionID: secExt, Title: "Pneus", Order: 2, ResponseType: entities.ResponseOptions, Options: []string{"Bons", "Trocar"}},
			},
		},
		storage:  &MockStorage{},
		renderer: &fakeRenderer{pdf: []byte("%PDF-1.4 fake")},
	}
	h.services = newFakeServiceRepo(h.vehicles)
	h.services.put(entities.Service{
		ID:         "svc-1",
		EmployeeID: null.StringFrom("emp-1"),
		ClientID:   null.StringFrom("cli-1"),
		VehicleID:  null.StringFrom("veh-1"),
		Status:     entities.ServiceDraft,
		CreatedAt:  time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		Client:     &entities.Client{ID: "cli-1", Name: "Maria", Phone: "11 99999-0000"},
		Employee:   &entities.User{ID: "emp-1", Username: "joao", Cargo: "Lavador", Role: entities.RoleEmployee},
	})

	logger := zap.NewNop()
	h.checklists = NewChecklistService(fakeTx{}, h.checklistRepo, nil, time.Minute, logger)
	h.reports = NewReportService(h.services, h.checklists, h.renderer, h.storage, nil, report.LayoutOptions{Location: time.UTC}, logger).(*reportService)
	h.reports.now = func() time.Time { return fixedNow }
	h.inspection = NewInspectionService(fakeTx{}, h.services, h.vehicles, h.checklists, h.reports, checklist.NewEngine(nil), logger).(*inspectionService)
	h.inspection.now = func() time.Time { return fixedNow }

	t.Cleanup(func() { h.storage.AssertExpectations(t) })
	return h
}

func (h *harness) setReport(id, handle string, meta *entities.Snapshot) {
	h.services.mu.Lock()
	defer h.services.mu.Unlock()
	s := h.services.services[id]
	s.PdfURL = null.StringFrom(handle)
	s.ChecklistData.Meta = meta
}

func (h *harness) finalize(id string) {
	h.services.mu.Lock()
	defer h.services.mu.Unlock()
	h.services.services[id].Status = entities.ServiceFinalized
}

func vehicleLinesOf(doc report.Document) []string {
	for _, p := range doc.Pages {
		for _, b := range p.Blocks {
			if b.Kind == report.BlockVehicle {
				return b.Lines
			}
		}
	}
	return nil
}
