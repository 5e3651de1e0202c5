package listeners

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"inspection-system/internal/events"
	apperrors "inspection-system/pkg/errors"
	"inspection-system/pkg/eventbus"
	"inspection-system/pkg/filestorage"
)

// ReportCleanupListener deletes the stored report of a deleted service.
type ReportCleanupListener struct {
	storage filestorage.FileStorageInterface
	logger  *zap.Logger
}

func NewReportCleanupListener(storage filestorage.FileStorageInterface, logger *zap.Logger) *ReportCleanupListener {
	return &ReportCleanupListener{storage: storage, logger: logger}
}

func (l *ReportCleanupListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.ServiceDeletedName, l.handleServiceDeleted)
	l.logger.Info("ReportCleanupListener inscrito em " + events.ServiceDeletedName)
}

func (l *ReportCleanupListener) handleServiceDeleted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.ServiceDeleted)
	if !ok {
		return fmt.Errorf("evento inesperado: %T", event)
	}
	if e.PdfURL == "" {
		return nil
	}

	err := l.storage.Delete(ctx, e.PdfURL)
	switch {
	case err == nil:
		l.logger.Info("relatório removido do armazenamento", zap.String("serviceID", e.ServiceID), zap.String("handle", e.PdfURL))
	case errors.Is(err, apperrors.ErrObjectMissing):
		l.logger.Warn("relatório já não existia no armazenamento", zap.String("serviceID", e.ServiceID), zap.String("handle", e.PdfURL))
	default:
		l.logger.Error("falha ao remover relatório do armazenamento",
			zap.String("serviceID", e.ServiceID),
			zap.String("handle", e.PdfURL),
			zap.Error(err),
		)
	}
	return nil
}
