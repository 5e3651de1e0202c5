package routes

import (
	"github.com/labstack/echo/v4"

	"inspection-system/internal/controllers"
	"inspection-system/internal/entities"
	"inspection-system/pkg/middleware"
)

func runServiceRouter(
	secureGroup *echo.Group,
	serviceCtrl *controllers.ServiceController,
	inspectionCtrl *controllers.InspectionController,
	authMW *middleware.AuthMiddleware,
) {
	services := secureGroup.Group("/services")

	services.POST("", inspectionCtrl.CreateService)
	services.GET("", serviceCtrl.List)
	services.GET("/:id", serviceCtrl.Get)
	services.DELETE("/:id", serviceCtrl.Delete, authMW.RequireRole(entities.RoleAdmin))

	services.GET("/:id/checklist", inspectionCtrl.GetChecklist)
	services.PUT("/:id/checklist/:sectionId/:itemId", inspectionCtrl.RecordAnswer)
	services.POST("/:id/checklist/validate", inspectionCtrl.Validate)
	services.POST("/:id/submit", inspectionCtrl.Submit)
}
