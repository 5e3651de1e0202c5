package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inspection-system/internal/dto"
	"inspection-system/internal/services"
	"inspection-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	renderTimeout time.Duration
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, renderTimeout time.Duration, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, renderTimeout: renderTimeout, logger: logger}
}

func (c *ReportController) Generate(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	force, _ := strconv.ParseBool(ctx.QueryParam("force"))

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.renderTimeout)
	defer cancel()

	res, err := c.reportService.Generate(reqCtx, id, force)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if !res.Regenerated {
		return utils.SuccessResponse(ctx, res, "Relatório já existente", http.StatusOK)
	}
	return utils.SuccessResponse(ctx, res, "Relatório gerado", http.StatusCreated)
}

func (c *ReportController) Link(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.LinkReportDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.reportService.Link(ctx.Request().Context(), id, payload.Handle)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Relatório vinculado", http.StatusOK)
}

func (c *ReportController) Download(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	data, filename, err := c.reportService.Download(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, "application/pdf", data)
}
