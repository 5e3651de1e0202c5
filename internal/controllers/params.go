package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "inspection-system/pkg/errors"
)

// uuidParam reads a path parameter that must be a UUID.
func uuidParam(ctx echo.Context, name string) (string, error) {
	raw := ctx.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.NewHttpError(
			http.StatusBadRequest,
			"Parâmetro '"+name+"' inválido",
			err,
			map[string]interface{}{"param": raw},
		)
	}
	return id.String(), nil
}

// bindBody decodes the JSON body into payload and runs the validator.
func bindBody(ctx echo.Context, payload interface{}) error {
	if err := ctx.Bind(payload); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "JSON inválido", err, nil)
	}
	return ctx.Validate(payload)
}
