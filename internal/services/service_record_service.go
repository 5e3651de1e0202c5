package services

import (
	"context"

	"go.uber.org/zap"

	"inspection-system/internal/entities"
	"inspection-system/internal/events"
	"inspection-system/internal/repositories"
	"inspection-system/pkg/eventbus"
	"inspection-system/pkg/types"
	"inspection-system/pkg/utils"
)

type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

type ServiceRecordServiceInterface interface {
	// List returns every service for admins and only the caller's own
	// services for employees.
	List(ctx context.Context, filter types.Filter) ([]*entities.Service, uint64, error)
	Get(ctx context.Context, serviceID string) (*entities.Service, error)
	Delete(ctx context.Context, serviceID string) error
}

type serviceRecordService struct {
	serviceRepo repositories.ServiceRepositoryInterface
	publisher   EventPublisher
	logger      *zap.Logger
}

func NewServiceRecordService(
	serviceRepo repositories.ServiceRepositoryInterface,
	publisher EventPublisher,
	logger *zap.Logger,
) ServiceRecordServiceInterface {
	return &serviceRecordService{serviceRepo: serviceRepo, publisher: publisher, logger: logger}
}

func (s *serviceRecordService) List(ctx context.Context, filter types.Filter) ([]*entities.Service, uint64, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	employeeID := ""
	if !actor.IsAdmin() {
		employeeID = actor.UserID
	}
	return s.serviceRepo.GetAll(ctx, filter, employeeID)
}

func (s *serviceRecordService) Get(ctx context.Context, serviceID string) (*entities.Service, error) {
	svc, err := s.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeService(ctx, svc, false); err != nil {
		return nil, err
	}
	return svc, nil
}

// Delete removes the row. The report artifact is cleaned up by the
// ServiceDeleted listener and never blocks the deletion.
func (s *serviceRecordService) Delete(ctx context.Context, serviceID string) error {
	pdfURL, err := s.serviceRepo.Delete(ctx, serviceID)
	if err != nil {
		return err
	}
	s.logger.Info("serviço removido", zap.String("serviceID", serviceID), zap.Bool("hadReport", pdfURL.Valid))
	if pdfURL.Valid && pdfURL.String != "" {
		s.publisher.Publish(ctx, events.ServiceDeleted{ServiceID: serviceID, PdfURL: pdfURL.String})
	}
	return nil
}
