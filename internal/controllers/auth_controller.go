package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inspection-system/internal/dto"
	"inspection-system/internal/services"
	"inspection-system/pkg/service"
	"inspection-system/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	jwtSvc      service.JWTService
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, jwtSvc service.JWTService, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, jwtSvc: jwtSvc, logger: logger}
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindBody(c, &payload); err != nil {
		ctrl.logger.Warn("Login: dados inválidos", zap.Error(err))
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	user, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	token, err := ctrl.jwtSvc.GenerateToken(user.ID, user.Role)
	if err != nil {
		ctrl.logger.Error("Login: falha ao gerar token", zap.String("userID", user.ID), zap.Error(err))
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	res := dto.AuthResponseDTO{
		AccessToken: token,
		ExpiresIn:   int64(ctrl.jwtSvc.GetAccessTokenTTL().Seconds()),
		User: dto.UserPublicDTO{
			ID:       user.ID,
			Username: user.Username,
			Cargo:    user.Cargo,
			Role:     user.Role,
		},
	}
	return utils.SuccessResponse(c, res, "Login realizado com sucesso", http.StatusOK)
}
