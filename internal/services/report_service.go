package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"inspection-system/internal/checklist"
	"inspection-system/internal/dto"
	"inspection-system/internal/entities"
	"inspection-system/internal/report"
	"inspection-system/internal/repositories"
	apperrors "inspection-system/pkg/errors"
	"inspection-system/pkg/filestorage"
)

const (
	reportContentType = "application/pdf"
	reportKeyLayout   = "20060102150405.000"
)

// DocumentRenderer turns a laid-out report into PDF bytes.
type DocumentRenderer interface {
	Render(ctx context.Context, doc report.Document) ([]byte, error)
}

type ReportServiceInterface interface {
	// Generate runs render, store and link. Without force an existing report
	// is returned as is.
	Generate(ctx context.Context, serviceID string, force bool) (*dto.ReportDTO, error)
	// Download returns the stored bytes of the linked report. It never renders.
	Download(ctx context.Context, serviceID string) (data []byte, filename string, err error)
	// Link retries the last step for an artifact that was stored but not linked.
	Link(ctx context.Context, serviceID, handle string) (*dto.ReportDTO, error)
}

type reportService struct {
	serviceRepo  repositories.ServiceRepositoryInterface
	checklistSvc ChecklistServiceInterface
	renderer     DocumentRenderer
	storage      filestorage.FileStorageInterface
	engine       *checklist.Engine
	layout       report.LayoutOptions
	now          func() time.Time
	logger       *zap.Logger
}

func NewReportService(
	serviceRepo repositories.ServiceRepositoryInterface,
	checklistSvc ChecklistServiceInterface,
	renderer DocumentRenderer,
	storage filestorage.FileStorageInterface,
	engine *checklist.Engine,
	layout report.LayoutOptions,
	logger *zap.Logger,
) ReportServiceInterface {
	if engine == nil {
		engine = checklist.NewEngine(nil)
	}
	return &reportService{
		serviceRepo:  serviceRepo,
		checklistSvc: checklistSvc,
		renderer:     renderer,
		storage:      storage,
		engine:       engine,
		layout:       layout,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *reportService) Generate(ctx context.Context, serviceID string, force bool) (*dto.ReportDTO, error) {
	svc, err := s.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeService(ctx, svc, false); err != nil {
		return nil, err
	}
	if svc.HasReport() && !force {
		return &dto.ReportDTO{ServiceID: svc.ID, PdfURL: svc.PdfURL.String}, nil
	}

	def, err := s.checklistSvc.Definition(ctx)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(zap.String("serviceID", svc.ID))
	subjects, _ := report.SubjectsFor(svc)
	newMeta := snapshotToCapture(svc)

	now := s.now()
	res := s.engine.ResolveAnswers(def.Sections, def.Items, svc.ChecklistData.Answers, subjects, now)
	doc := report.Build(svc, subjects, res.Answers, def.Sections, def.Items, now, s.layout)
	pdf, err := s.renderer.Render(ctx, doc)
	if err != nil {
		log.Error("falha ao renderizar relatório", zap.Error(err))
		return nil, err
	}
	log.Debug("relatório renderizado", zap.Int("pages", len(doc.Pages)), zap.Int("bytes", len(pdf)))

	handle, err := s.storage.Put(ctx, reportKey(svc.ID, now), pdf, reportContentType)
	if err != nil {
		log.Error("falha ao armazenar relatório", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageFailed, err)
	}

	if err := s.serviceRepo.LinkReport(ctx, svc.ID, handle, newMeta); err != nil {
		log.Error("relatório armazenado mas não vinculado", zap.String("handle", handle), zap.Error(err))
		return nil, &apperrors.LinkError{Handle: handle, Err: err}
	}
	log.Info("relatório vinculado", zap.String("handle", handle), zap.Bool("snapshot", newMeta != nil))

	if previous := svc.PdfURL.String; svc.HasReport() && previous != handle {
		s.discard(ctx, log, previous)
	}
	return &dto.ReportDTO{ServiceID: svc.ID, PdfURL: handle, Regenerated: true}, nil
}

func (s *reportService) Download(ctx context.Context, serviceID string) ([]byte, string, error) {
	svc, err := s.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		return nil, "", err
	}
	if _, err := authorizeService(ctx, svc, false); err != nil {
		return nil, "", err
	}
	if !svc.HasReport() {
		return nil, "", apperrors.ErrNoReport
	}
	data, err := s.storage.Get(ctx, svc.PdfURL.String)
	if err != nil {
		return nil, "", err
	}
	return data, downloadName(svc), nil
}

func (s *reportService) Link(ctx context.Context, serviceID, handle string) (*dto.ReportDTO, error) {
	svc, err := s.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeService(ctx, svc, false); err != nil {
		return nil, err
	}
	exists, err := s.storage.Exists(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageFailed, err)
	}
	if !exists {
		return nil, apperrors.ErrObjectMissing
	}

	newMeta := snapshotToCapture(svc)
	if err := s.serviceRepo.LinkReport(ctx, svc.ID, handle, newMeta); err != nil {
		return nil, &apperrors.LinkError{Handle: handle, Err: err}
	}
	s.logger.Info("relatório vinculado manualmente", zap.String("serviceID", svc.ID), zap.String("handle", handle))
	return &dto.ReportDTO{ServiceID: svc.ID, PdfURL: handle}, nil
}

// snapshotToCapture returns the subjects to freeze into __meta. Only a
// finalized service without a snapshot gets one; draft previews read the live
// rows and leave nothing behind.
func snapshotToCapture(svc *entities.Service) *entities.Snapshot {
	if !svc.IsFinalized() {
		return nil
	}
	subjects, fromSnapshot := report.SubjectsFor(svc)
	if fromSnapshot {
		return nil
	}
	return &subjects
}

// discard removes a replaced artifact. Failures are only logged.
func (s *reportService) discard(ctx context.Context, log *zap.Logger, handle string) {
	if err := s.storage.Delete(ctx, handle); err != nil {
		log.Warn("não foi possível remover o relatório anterior", zap.String("handle", handle), zap.Error(err))
		return
	}
	log.Debug("relatório anterior removido", zap.String("handle", handle))
}

// reportKey is reports/{id}-{yyyyMMddHHmmssSSS}.pdf in UTC.
func reportKey(serviceID string, at time.Time) string {
	stamp := strings.Replace(at.UTC().Format(reportKeyLayout), ".", "", 1)
	return fmt.Sprintf("reports/%s-%s.pdf", serviceID, stamp)
}

func downloadName(svc *entities.Service) string {
	subjects, _ := report.SubjectsFor(svc)
	plate := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(subjects.VehicleDetails.Plate), " ", ""))
	if plate == "" {
		return fmt.Sprintf("relatorio-%s.pdf", svc.ID)
	}
	return fmt.Sprintf("relatorio-%s-%s.pdf", plate, svc.CreatedAt.Format("20060102"))
}
