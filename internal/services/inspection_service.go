package services

import (
	"context"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inspection-system/internal/checklist"
	"inspection-system/internal/dto"
	"inspection-system/internal/entities"
	"inspection-system/internal/report"
	"inspection-system/internal/repositories"
	apperrors "inspection-system/pkg/errors"
	"inspection-system/pkg/utils"
)

type InspectionServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateServiceDTO) (*entities.Service, error)
	LoadChecklist(ctx context.Context, serviceID string) (*dto.ChecklistViewDTO, error)
	RecordAnswer(ctx context.Context, serviceID, sectionID, itemID, value string) (*dto.ChecklistEntryDTO, error)
	Validate(ctx context.Context, serviceID string) (checklist.Completeness, error)
	// Submit finalizes the service and then generates its report. A report
	// failure does not undo the submit; it comes back in ReportError.
	Submit(ctx context.Context, serviceID string, payload dto.SubmitDTO) (*dto.SubmitResultDTO, error)
}

type inspectionService struct {
	txManager    repositories.TxManagerInterface
	serviceRepo  repositories.ServiceRepositoryInterface
	vehicleRepo  repositories.VehicleRepositoryInterface
	checklistSvc ChecklistServiceInterface
	reportSvc    ReportServiceInterface
	engine       *checklist.Engine
	now          func() time.Time
	logger       *zap.Logger
}

func NewInspectionService(
	txManager repositories.TxManagerInterface,
	serviceRepo repositories.ServiceRepositoryInterface,
	vehicleRepo repositories.VehicleRepositoryInterface,
	checklistSvc ChecklistServiceInterface,
	reportSvc ReportServiceInterface,
	engine *checklist.Engine,
	logger *zap.Logger,
) InspectionServiceInterface {
	if engine == nil {
		engine = checklist.NewEngine(nil)
	}
	return &inspectionService{
		txManager:    txManager,
		serviceRepo:  serviceRepo,
		vehicleRepo:  vehicleRepo,
		checklistSvc: checklistSvc,
		reportSvc:    reportSvc,
		engine:       engine,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *inspectionService) Create(ctx context.Context, payload dto.CreateServiceDTO) (*entities.Service, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, payload.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.ClientID.Valid && vehicle.ClientID.String != payload.ClientID {
		return nil, apperrors.NewInvalidInputError("o veículo %s não pertence ao cliente informado", vehicle.Plate)
	}

	id, err := s.serviceRepo.Create(ctx, entities.Service{
		EmployeeID: null.StringFrom(actor.UserID),
		ClientID:   null.StringFrom(payload.ClientID),
		VehicleID:  null.StringFrom(payload.VehicleID),
		Status:     entities.ServiceDraft,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("serviço criado", zap.String("serviceID", id), zap.String("employeeID", actor.UserID))
	return s.serviceRepo.FindByID(ctx, id)
}

func (s *inspectionService) load(ctx context.Context, serviceID string, forWrite bool) (*entities.Service, ChecklistDefinition, error) {
	svc, err := s.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		return nil, ChecklistDefinition{}, err
	}
	if _, err := authorizeService(ctx, svc, forWrite); err != nil {
		return nil, ChecklistDefinition{}, err
	}
	def, err := s.checklistSvc.Definition(ctx)
	if err != nil {
		return nil, ChecklistDefinition{}, err
	}
	return svc, def, nil
}

func (s *inspectionService) LoadChecklist(ctx context.Context, serviceID string) (*dto.ChecklistViewDTO, error) {
	svc, def, err := s.load(ctx, serviceID, false)
	if err != nil {
		return nil, err
	}

	subjects, fromSnapshot := report.SubjectsFor(svc)
	res := s.engine.ResolveAnswers(def.Sections, def.Items, svc.ChecklistData.Answers, subjects, s.now())

	// The inspection timestamp is fixed the first time the owner opens the
	// checklist so reloading does not move it. Anyone else only views it.
	actor, _ := utils.GetActorFromCtx(ctx)
	if !svc.IsFinalized() && ownsService(svc, actor) {
		stamped := svc.ChecklistData.Answers.Clone()
		changed := false
		for _, d := range res.Derived {
			if d.Timestamp {
				stamped.Set(d.SectionID, d.ItemID, d.Value)
				changed = true
			}
		}
		if changed {
			if err := s.serviceRepo.SaveAnswers(ctx, nil, svc.ID, stamped); err != nil {
				return nil, err
			}
		}
	}

	view := &dto.ChecklistViewDTO{
		ServiceID:    svc.ID,
		Status:       string(svc.Status),
		ReadOnly:     svc.IsFinalized() && !actor.IsAdmin(),
		Observations: svc.Observations.String,
		PdfURL:       svc.PdfURL.String,
		Subjects:     subjectsToDTO(subjects, fromSnapshot),
		Sections:     make([]dto.ChecklistViewSectionDTO, 0, len(def.Sections)),
	}

	derived := make(map[string]bool, len(res.Derived))
	for _, d := range res.Derived {
		if !d.Timestamp {
			derived[d.SectionID+"/"+d.ItemID] = true
		}
	}
	for _, section := range checklist.SortSections(def.Sections) {
		entries := []dto.ChecklistEntryDTO{}
		for _, item := range checklist.ItemsOf(section.ID, def.Items) {
			value, _ := res.Answers.Get(section.ID, item.ID)
			entries = append(entries, dto.ChecklistEntryDTO{
				ChecklistItemDTO: dto.ItemToDTO(item),
				Value:            value,
				Editable:         checklist.Editable(item) && !view.ReadOnly,
				Derived:          derived[section.ID+"/"+item.ID],
			})
		}
		view.Sections = append(view.Sections, dto.ChecklistViewSectionDTO{
			ID:    section.ID,
			Title: section.Title,
			Order: section.Order,
			Items: entries,
		})
	}
	return view, nil
}

func (s *inspectionService) RecordAnswer(ctx context.Context, serviceID, sectionID, itemID, value string) (*dto.ChecklistEntryDTO, error) {
	svc, def, err := s.load(ctx, serviceID, true)
	if err != nil {
		return nil, err
	}
	item, ok := def.FindItem(sectionID, itemID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	value = strings.TrimSpace(value)
	if err := checklist.ValidateAnswer(item, value); err != nil {
		return nil, err
	}

	answers := svc.ChecklistData.Answers.Clone()
	if value == "" {
		answers.Delete(sectionID, itemID)
	} else {
		answers.Set(sectionID, itemID, value)
	}
	if err := s.serviceRepo.SaveAnswers(ctx, nil, svc.ID, answers); err != nil {
		return nil, err
	}
	return &dto.ChecklistEntryDTO{ChecklistItemDTO: dto.ItemToDTO(item), Value: value, Editable: true}, nil
}

func (s *inspectionService) Validate(ctx context.Context, serviceID string) (checklist.Completeness, error) {
	svc, def, err := s.load(ctx, serviceID, false)
	if err != nil {
		return checklist.Completeness{}, err
	}
	subjects, _ := report.SubjectsFor(svc)
	res := s.engine.ResolveAnswers(def.Sections, def.Items, svc.ChecklistData.Answers, subjects, s.now())
	return checklist.ValidateCompleteness(def.Sections, def.Items, res.Answers)
}

func (s *inspectionService) Submit(ctx context.Context, serviceID string, payload dto.SubmitDTO) (*dto.SubmitResultDTO, error) {
	svc, def, err := s.load(ctx, serviceID, true)
	if err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("serviceID", svc.ID))

	answers := svc.ChecklistData.Answers.Clone()
	for sectionID, items := range payload.Answers {
		for itemID, value := range items {
			item, ok := def.FindItem(sectionID, itemID)
			if !ok || !checklist.Editable(item) {
				continue
			}
			value = strings.TrimSpace(value)
			if err := checklist.ValidateAnswer(item, value); err != nil {
				return nil, err
			}
			if value == "" {
				answers.Delete(sectionID, itemID)
			} else {
				answers.Set(sectionID, itemID, value)
			}
		}
	}

	subjects, _ := report.SubjectsFor(svc)
	res := s.engine.ResolveAnswers(def.Sections, def.Items, answers, subjects, s.now())
	completeness, err := checklist.ValidateCompleteness(def.Sections, def.Items, res.Answers)
	if err != nil {
		return nil, err
	}

	observations := null.NewString(strings.TrimSpace(payload.Observations), strings.TrimSpace(payload.Observations) != "")
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if payload.KmCurrent != nil && svc.VehicleID.Valid {
			if err := s.vehicleRepo.UpdateKm(ctx, tx, svc.VehicleID.String, *payload.KmCurrent); err != nil {
				return err
			}
		}
		return s.serviceRepo.Finalize(ctx, tx, svc.ID, res.Answers, observations)
	})
	if err != nil {
		return nil, err
	}
	log.Info("checklist finalizado",
		zap.Int("answered", completeness.Answered),
		zap.Int("total", completeness.Total),
		zap.Strings("warnings", completeness.Warnings),
	)

	result := &dto.SubmitResultDTO{Completeness: completeness}
	rep, err := s.reportSvc.Generate(ctx, svc.ID, true)
	if err != nil {
		log.Error("checklist salvo, mas o relatório falhou", zap.Error(err))
		result.ReportError = err.Error()
		return result, nil
	}
	result.PdfURL = rep.PdfURL
	return result, nil
}

func subjectsToDTO(snap entities.Snapshot, fromSnapshot bool) dto.SubjectsDTO {
	return dto.SubjectsDTO{
		ClientName:   snap.ClientDetails.Name,
		ClientPhone:  snap.ClientDetails.Phone,
		VehicleType:  snap.VehicleDetails.Type,
		ModelYear:    snap.VehicleDetails.ModelYear,
		Plate:        snap.VehicleDetails.Plate,
		DriverName:   snap.VehicleDetails.DriverName,
		KmCurrent:    snap.VehicleDetails.KmCurrent,
		EmployeeName: snap.EmployeeDetails.Username,
		EmployeeRole: snap.EmployeeDetails.Cargo,
		FromSnapshot: fromSnapshot,
	}
}
