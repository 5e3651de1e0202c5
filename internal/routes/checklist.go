package routes

import (
	"github.com/labstack/echo/v4"

	"inspection-system/internal/controllers"
	"inspection-system/internal/entities"
	"inspection-system/pkg/middleware"
)

func runChecklistRouter(
	secureGroup *echo.Group,
	checklistCtrl *controllers.ChecklistController,
	authMW *middleware.AuthMiddleware,
) {
	secureGroup.GET("/checklist", checklistCtrl.GetDefinition)

	admin := secureGroup.Group("/checklist", authMW.RequireRole(entities.RoleAdmin))
	admin.POST("/sections", checklistCtrl.CreateSection)
	admin.PUT("/sections/:id", checklistCtrl.UpdateSection)
	admin.DELETE("/sections/:id", checklistCtrl.DeleteSection)
	admin.POST("/items", checklistCtrl.CreateItem)
	admin.PUT("/items/:id", checklistCtrl.UpdateItem)
	admin.DELETE("/items/:id", checklistCtrl.DeleteItem)
	admin.POST("/seed-default", checklistCtrl.SeedDefault)
}
