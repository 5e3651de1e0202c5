package services

import (
	"context"

	"inspection-system/internal/entities"
	apperrors "inspection-system/pkg/errors"
	"inspection-system/pkg/utils"
)

// authorizeService lets admins through and limits employees to services
// they own. With forWrite, finalized services are closed to employees.
func authorizeService(ctx context.Context, svc *entities.Service, forWrite bool) (utils.Actor, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return utils.Actor{}, err
	}
	if actor.IsAdmin() {
		return actor, nil
	}
	if !ownsService(svc, actor) {
		return actor, apperrors.ErrForbidden
	}
	if forWrite && svc.IsFinalized() {
		return actor, apperrors.ErrServiceFinalized
	}
	return actor, nil
}

func ownsService(svc *entities.Service, actor utils.Actor) bool {
	return svc.EmployeeID.Valid && svc.EmployeeID.String == actor.UserID
}
