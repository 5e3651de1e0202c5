package repositories

import (
	"context"
	"errors"
	"fmt"

	"inspection-system/internal/entities"
	apperrors "inspection-system/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const vehicleTable = "vehicles"

var vehicleFields = []string{"id::text", "client_id::text", "type", "model_year", "plate", "driver_name", "km_current", "observations", "created_at"}

type VehicleRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entities.Vehicle, error)
	UpdateKm(ctx context.Context, tx pgx.Tx, id string, km int) error
}

type vehicleRepository struct {
	storage *pgxpool.Pool
}

func NewVehicleRepository(storage *pgxpool.Pool) VehicleRepositoryInterface {
	return &vehicleRepository{storage: storage}
}

func (r *vehicleRepository) FindByID(ctx context.Context, id string) (*entities.Vehicle, error) {
	query, args, err := psql().Select(vehicleFields...).From(vehicleTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao montar FindByID: %w", err)
	}
	var v entities.Vehicle
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&v.ID, &v.ClientID, &v.Type, &v.ModelYear, &v.Plate, &v.DriverName, &v.KmCurrent, &v.Observations, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("erro ao ler vehicles: %w", err)
	}
	return &v, nil
}

func (r *vehicleRepository) UpdateKm(ctx context.Context, tx pgx.Tx, id string, km int) error {
	query, args, err := psql().Update(vehicleTable).Set("km_current", km).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("erro ao montar UpdateKm: %w", err)
	}
	return execOne(ctx, querierFor(r.storage, tx), query, args...)
}
