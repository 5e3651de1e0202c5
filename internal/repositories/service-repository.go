package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"inspection-system/internal/entities"
	apperrors "inspection-system/pkg/errors"
	"inspection-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceTable = "services"

var serviceSelect = []string{
	"s.id::text", "s.employee_id::text", "s.client_id::text", "s.vehicle_id::text",
	"s.status", "s.checklist_data", "s.observations", "s.photos", "s.pdf_url",
	"s.created_at", "s.updated_at",
	"c.id::text", "c.name", "c.phone",
	"v.id::text", "v.client_id::text", "v.type", "v.model_year", "v.plate", "v.driver_name", "v.km_current", "v.observations",
	"u.id::text", "u.username", "u.cargo", "u.role",
}

var serviceSortColumns = map[string]string{
	"created_at": "s.created_at",
	"status":     "s.status",
	"client":     "c.name",
	"plate":      "v.plate",
}

type ServiceRepositoryInterface interface {
	Create(ctx context.Context, s entities.Service) (string, error)
	FindByID(ctx context.Context, id string) (*entities.Service, error)
	GetAll(ctx context.Context, filter types.Filter, employeeID string) ([]*entities.Service, uint64, error)

	// SaveAnswers rewrites the answers and keeps any stored __meta.
	SaveAnswers(ctx context.Context, tx pgx.Tx, id string, answers entities.Answers) error
	Finalize(ctx context.Context, tx pgx.Tx, id string, answers entities.Answers, observations null.String) error
	// LinkReport writes pdf_url, and __meta when meta is non-nil, in one statement.
	LinkReport(ctx context.Context, id, handle string, meta *entities.Snapshot) error
	Delete(ctx context.Context, id string) (pdfURL null.String, err error)
}

type serviceRepository struct {
	storage *pgxpool.Pool
}

func NewServiceRepository(storage *pgxpool.Pool) ServiceRepositoryInterface {
	return &serviceRepository{storage: storage}
}

func (r *serviceRepository) baseSelect() sq.SelectBuilder {
	return psql().Select(serviceSelect...).
		From(serviceTable + " s").
		LeftJoin("clients c ON c.id = s.client_id").
		LeftJoin("vehicles v ON v.id = s.vehicle_id").
		LeftJoin("users u ON u.id = s.employee_id")
}

type serviceRow struct {
	entities.Service

	clientID, clientName, clientPhone null.String

	vehicleID, vehicleClientID, vehicleType, vehicleModel, vehiclePlate null.String
	vehicleDriver, vehicleObservations                                  null.String
	vehicleKm                                                           null.Int

	userID, userName, userCargo, userRole null.String
}

// scanService reads one joined row and folds the LEFT JOIN columns into
// optional relations. A deleted client/vehicle/employee becomes nil.
func scanService(row pgx.Row) (*entities.Service, error) {
	var r serviceRow
	var status string
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.ClientID, &r.VehicleID,
		&status, &r.ChecklistData, &r.Observations, &r.Photos, &r.PdfURL,
		&r.CreatedAt, &r.UpdatedAt,
		&r.clientID, &r.clientName, &r.clientPhone,
		&r.vehicleID, &r.vehicleClientID, &r.vehicleType, &r.vehicleModel, &r.vehiclePlate, &r.vehicleDriver, &r.vehicleKm, &r.vehicleObservations,
		&r.userID, &r.userName, &r.userCargo, &r.userRole,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("erro ao ler services: %w", err)
	}

	s := r.Service
	s.Status = entities.ServiceStatus(status)
	if s.Photos == nil {
		s.Photos = []string{}
	}
	if s.ChecklistData.Answers == nil {
		s.ChecklistData.Answers = entities.Answers{}
	}
	if r.clientID.Valid {
		s.Client = &entities.Client{ID: r.clientID.String, Name: r.clientName.String, Phone: r.clientPhone.String}
	}
	if r.vehicleID.Valid {
		s.Vehicle = &entities.Vehicle{
			ID:           r.vehicleID.String,
			ClientID:     r.vehicleClientID,
			Type:         r.vehicleType.String,
			ModelYear:    r.vehicleModel.String,
			Plate:        r.vehiclePlate.String,
			DriverName:   r.vehicleDriver,
			KmCurrent:    r.vehicleKm,
			Observations: r.vehicleObservations,
		}
	}
	if r.userID.Valid {
		s.Employee = &entities.User{ID: r.userID.String, Username: r.userName.String, Cargo: r.userCargo.String, Role: r.userRole.String}
	}
	return &s, nil
}

func (r *serviceRepository) Create(ctx context.Context, s entities.Service) (string, error) {
	photos, err := jsonText(nonNilOptions(s.Photos))
	if err != nil {
		return "", err
	}
	query, args, err := psql().Insert(serviceTable).
		Columns("employee_id", "client_id", "vehicle_id", "status", "checklist_data", "observations", "photos").
		Values(s.EmployeeID, s.ClientID, s.VehicleID, string(entities.ServiceDraft), sq.Expr("'{}'::jsonb"), s.Observations, sq.Expr("?::jsonb", photos)).
		Suffix("RETURNING id::text").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("erro ao montar Create: %w", err)
	}

	var id string
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return "", apperrors.NewInvalidInputError("cliente, veículo ou funcionário inexistente")
		}
		return "", fmt.Errorf("erro ao criar serviço: %w", err)
	}
	return id, nil
}

func (r *serviceRepository) FindByID(ctx context.Context, id string) (*entities.Service, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao montar FindByID: %w", err)
	}
	return scanService(r.storage.QueryRow(ctx, query, args...))
}

func (r *serviceRepository) GetAll(ctx context.Context, filter types.Filter, employeeID string) ([]*entities.Service, uint64, error) {
	where := sq.And{}
	if employeeID != "" {
		where = append(where, sq.Eq{"s.employee_id": employeeID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, sq.Or{sq.ILike{"c.name": pattern}, sq.ILike{"v.plate": pattern}, sq.ILike{"u.username": pattern}})
	}
	if status, ok := filter.Filter["status"]; ok {
		where = append(where, sq.Eq{"s.status": strings.Split(status, ",")})
	}
	if reported, ok := filter.Filter["reported"]; ok {
		if reported == "true" {
			where = append(where, sq.NotEq{"s.pdf_url": nil})
		} else {
			where = append(where, sq.Eq{"s.pdf_url": nil})
		}
	}

	countQuery, countArgs, err := psql().Select("COUNT(s.id)").
		From(serviceTable + " s").
		LeftJoin("clients c ON c.id = s.client_id").
		LeftJoin("vehicles v ON v.id = s.vehicle_id").
		LeftJoin("users u ON u.id = s.employee_id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao montar contagem de serviços: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*entities.Service{}, 0, nil
	}

	builder := r.baseSelect().Where(where)
	sorted := false
	for field, direction := range filter.Sort {
		if column, ok := serviceSortColumns[field]; ok {
			builder = builder.OrderBy(column + " " + strings.ToUpper(direction))
			sorted = true
		}
	}
	if !sorted {
		builder = builder.OrderBy("s.created_at DESC")
	}
	if filter.WithPagination && filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao montar GetAll: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	services := make([]*entities.Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, 0, err
		}
		services = append(services, s)
	}
	return services, total, rows.Err()
}

// answersExpr builds the new checklist_data from answers, carrying over the
// stored __meta key if there is one.
func answersExpr(answers entities.Answers) (sq.Sqlizer, error) {
	if answers == nil {
		answers = entities.Answers{}
	}
	b, err := json.Marshal(map[string]map[string]string(answers))
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar respostas: %w", err)
	}
	return sq.Expr(
		"?::jsonb || jsonb_strip_nulls(jsonb_build_object('"+entities.MetaKey+"', checklist_data->'"+entities.MetaKey+"'))",
		string(b),
	), nil
}

func (r *serviceRepository) SaveAnswers(ctx context.Context, tx pgx.Tx, id string, answers entities.Answers) error {
	expr, err := answersExpr(answers)
	if err != nil {
		return err
	}
	query, args, err := psql().Update(serviceTable).
		Set("checklist_data", expr).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao montar SaveAnswers: %w", err)
	}
	return execOne(ctx, querierFor(r.storage, tx), query, args...)
}

func (r *serviceRepository) Finalize(ctx context.Context, tx pgx.Tx, id string, answers entities.Answers, observations null.String) error {
	expr, err := answersExpr(answers)
	if err != nil {
		return err
	}
	query, args, err := psql().Update(serviceTable).
		Set("checklist_data", expr).
		Set("observations", observations).
		Set("status", string(entities.ServiceFinalized)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao montar Finalize: %w", err)
	}
	return execOne(ctx, querierFor(r.storage, tx), query, args...)
}

func (r *serviceRepository) LinkReport(ctx context.Context, id, handle string, meta *entities.Snapshot) error {
	builder := psql().Update(serviceTable).
		Set("pdf_url", handle).
		Set("updated_at", sq.Expr("NOW()"))
	if meta != nil {
		metaJSON, err := jsonText(meta)
		if err != nil {
			return err
		}
		builder = builder.Set("checklist_data", sq.Expr("jsonb_set(checklist_data, '{"+entities.MetaKey+"}', ?::jsonb, true)", metaJSON))
	}
	query, args, err := builder.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("erro ao montar LinkReport: %w", err)
	}
	return execOne(ctx, r.storage, query, args...)
}

func (r *serviceRepository) Delete(ctx context.Context, id string) (null.String, error) {
	query, args, err := psql().Delete(serviceTable).Where(sq.Eq{"id": id}).Suffix("RETURNING pdf_url").ToSql()
	if err != nil {
		return null.String{}, fmt.Errorf("erro ao montar Delete: %w", err)
	}
	var pdfURL null.String
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&pdfURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return null.String{}, apperrors.ErrNotFound
		}
		return null.String{}, err
	}
	return pdfURL, nil
}

func execOne(ctx context.Context, q Querier, query string, args ...interface{}) error {
	result, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
