package routes

import (
	"github.com/labstack/echo/v4"

	"inspection-system/internal/controllers"
	"inspection-system/internal/entities"
	"inspection-system/pkg/middleware"
)

func runReportRouter(
	secureGroup *echo.Group,
	reportCtrl *controllers.ReportController,
	authMW *middleware.AuthMiddleware,
) {
	secureGroup.POST("/services/:id/report", reportCtrl.Generate)
	secureGroup.GET("/services/:id/report/download", reportCtrl.Download)
	secureGroup.POST("/services/:id/report/link", reportCtrl.Link, authMW.RequireRole(entities.RoleAdmin))
}
