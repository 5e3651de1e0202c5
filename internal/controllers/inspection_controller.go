package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inspection-system/internal/dto"
	"inspection-system/internal/services"
	"inspection-system/pkg/utils"
)

type InspectionController struct {
	inspectionService services.InspectionServiceInterface
	submitTimeout     time.Duration
	logger            *zap.Logger
}

// NewInspectionController wires the checklist endpoints. submitTimeout bounds
// the submit request, which includes rendering the report.
func NewInspectionController(inspectionService services.InspectionServiceInterface, submitTimeout time.Duration, logger *zap.Logger) *InspectionController {
	return &InspectionController{inspectionService: inspectionService, submitTimeout: submitTimeout, logger: logger}
}

func (c *InspectionController) CreateService(ctx echo.Context) error {
	var payload dto.CreateServiceDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	svc, err := c.inspectionService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.ServiceToDTO(svc), "Serviço criado", http.StatusCreated)
}

func (c *InspectionController) GetChecklist(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	view, err := c.inspectionService.LoadChecklist(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, view, "Checklist carregado", http.StatusOK)
}

func (c *InspectionController) RecordAnswer(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	sectionID, err := uuidParam(ctx, "sectionId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	itemID, err := uuidParam(ctx, "itemId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.RecordAnswerDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	entry, err := c.inspectionService.RecordAnswer(ctx.Request().Context(), id, sectionID, itemID, payload.Value)
	if err != nil {
		c.logger.Warn("RecordAnswer: resposta recusada",
			zap.String("serviceID", id),
			zap.String("itemID", itemID),
			zap.Error(err),
		)
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Resposta salva", http.StatusOK)
}

func (c *InspectionController) Validate(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.inspectionService.Validate(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	message := "Checklist completo"
	if len(result.Warnings) > 0 {
		message = result.Warnings[0]
	}
	return utils.SuccessResponse(ctx, result, message, http.StatusOK)
}

func (c *InspectionController) Submit(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.SubmitDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.submitTimeout)
	defer cancel()

	result, err := c.inspectionService.Submit(reqCtx, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if result.ReportError != "" {
		return utils.SuccessResponse(ctx, result, "Checklist salvo, mas falha ao gerar PDF: "+result.ReportError, http.StatusOK)
	}
	return utils.SuccessResponse(ctx, result, "Checklist salvo e PDF gerado com sucesso!", http.StatusOK)
}
