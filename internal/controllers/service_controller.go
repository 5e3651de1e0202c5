package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inspection-system/internal/dto"
	"inspection-system/internal/entities"
	"inspection-system/internal/services"
	"inspection-system/pkg/utils"
)

const exportLimit = 100000

type ServiceController struct {
	recordService services.ServiceRecordServiceInterface
	location      *time.Location
	logger        *zap.Logger
}

func NewServiceController(recordService services.ServiceRecordServiceInterface, location *time.Location, logger *zap.Logger) *ServiceController {
	if location == nil {
		location = time.Local
	}
	return &ServiceController{recordService: recordService, location: location, logger: logger}
}

func (c *ServiceController) List(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	format := strings.ToLower(ctx.QueryParam("format"))
	if format == "xlsx" {
		filter.Page, filter.Offset, filter.Limit = 1, 0, exportLimit
		filter.WithPagination = true
	}

	list, total, err := c.recordService.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if format == "xlsx" {
		return c.respondWithXLSX(ctx, list)
	}

	out := make([]dto.ServiceDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ServiceToDTO(s))
	}
	return utils.SuccessResponse(ctx, out, "Lista de serviços", http.StatusOK, total)
}

func (c *ServiceController) Get(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	svc, err := c.recordService.Get(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.ServiceToDTO(svc), "Serviço encontrado", http.StatusOK)
}

func (c *ServiceController) Delete(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.recordService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Serviço removido", http.StatusOK)
}

var serviceExportHeaders = []string{
	"Data", "Funcionário", "Cliente", "Placa", "Status", "Observações", "Relatório",
}

func serviceRow(s *entities.Service, loc *time.Location) []interface{} {
	row := dto.ServiceToDTO(s)
	status := "Rascunho"
	if s.IsFinalized() {
		status = "Finalizado"
	}
	return []interface{}{
		s.CreatedAt.In(loc).Format("02/01/2006 15:04"),
		row.EmployeeName, row.ClientName, row.Plate, status, row.Observations, row.PdfURL,
	}
}

// buildServicesWorkbook writes one row per service under a bold header.
func buildServicesWorkbook(list []*entities.Service, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Serviços"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &serviceExportHeaders); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", style); err != nil {
		return nil, err
	}

	for i, s := range list {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := serviceRow(s, loc)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", "C", 25)
	_ = f.SetColWidth(sheet, "F", "F", 50)
	_ = f.SetColWidth(sheet, "G", "G", 60)
	return f, nil
}

func (c *ServiceController) respondWithXLSX(ctx echo.Context, list []*entities.Service) error {
	f, err := buildServicesWorkbook(list, c.location)
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("erro ao montar planilha: %w", err), c.logger)
	}
	defer f.Close()

	fileName := fmt.Sprintf("servicos_%s.xlsx", time.Now().In(c.location).Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
