package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inspection-system/internal/dto"
	"inspection-system/internal/services"
	"inspection-system/pkg/utils"
)

type ChecklistController struct {
	checklistService services.ChecklistServiceInterface
	logger           *zap.Logger
}

func NewChecklistController(checklistService services.ChecklistServiceInterface, logger *zap.Logger) *ChecklistController {
	return &ChecklistController{checklistService: checklistService, logger: logger}
}

func (c *ChecklistController) GetDefinition(ctx echo.Context) error {
	def, err := c.checklistService.Definition(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.DefinitionToDTO(def.Sections, def.Items), "Checklist carregado", http.StatusOK)
}

func (c *ChecklistController) CreateSection(ctx echo.Context) error {
	var payload dto.CreateSectionDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	section, err := c.checklistService.CreateSection(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, section, "Seção criada", http.StatusCreated)
}

func (c *ChecklistController) UpdateSection(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateSectionDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	section, err := c.checklistService.UpdateSection(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, section, "Seção atualizada", http.StatusOK)
}

func (c *ChecklistController) DeleteSection(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.checklistService.DeleteSection(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Seção removida", http.StatusOK)
}

func (c *ChecklistController) CreateItem(ctx echo.Context) error {
	var payload dto.CreateItemDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.checklistService.CreateItem(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.ItemToDTO(*item), "Item criado", http.StatusCreated)
}

func (c *ChecklistController) UpdateItem(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateItemDTO
	if err := bindBody(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.checklistService.UpdateItem(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.ItemToDTO(*item), "Item atualizado", http.StatusOK)
}

func (c *ChecklistController) DeleteItem(ctx echo.Context) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.checklistService.DeleteItem(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Item removido", http.StatusOK)
}

// SeedDefault loads the stock checklist. ?replace=true wipes the current one.
func (c *ChecklistController) SeedDefault(ctx echo.Context) error {
	replace := ctx.QueryParam("replace") == "true"
	def, err := c.checklistService.LoadDefault(ctx.Request().Context(), replace)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Info("SeedDefault: checklist padrão inicializado", zap.Bool("replace", replace))
	return utils.SuccessResponse(ctx, dto.DefinitionToDTO(def.Sections, def.Items), "Checklist padrão inicializado!", http.StatusCreated)
}
