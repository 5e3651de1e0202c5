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

const (
	sectionTable = "checklist_sections"
	itemTable    = "checklist_items"
)

var (
	sectionFields = []string{"id::text", "title", "sort_order"}
	itemFields    = []string{"id::text", "section_id::text", "title", "sort_order", "response_type", "options"}
)

type ChecklistRepositoryInterface interface {
	ListSections(ctx context.Context) ([]entities.ChecklistSection, error)
	ListItems(ctx context.Context) ([]entities.ChecklistItem, error)

	FindSection(ctx context.Context, id string) (*entities.ChecklistSection, error)
	CreateSection(ctx context.Context, tx pgx.Tx, s entities.ChecklistSection) (string, error)
	UpdateSection(ctx context.Context, s entities.ChecklistSection) error
	DeleteSection(ctx context.Context, id string) error

	FindItem(ctx context.Context, id string) (*entities.ChecklistItem, error)
	CreateItem(ctx context.Context, tx pgx.Tx, item entities.ChecklistItem) (string, error)
	UpdateItem(ctx context.Context, item entities.ChecklistItem) error
	DeleteItem(ctx context.Context, id string) error

	DeleteAll(ctx context.Context, tx pgx.Tx) error
}

type checklistRepository struct {
	storage *pgxpool.Pool
}

func NewChecklistRepository(storage *pgxpool.Pool) ChecklistRepositoryInterface {
	return &checklistRepository{storage: storage}
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (r *checklistRepository) ListSections(ctx context.Context) ([]entities.ChecklistSection, error) {
	query, args, err := psql().Select(sectionFields...).From(sectionTable).OrderBy("sort_order ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao montar ListSections: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := make([]entities.ChecklistSection, 0)
	for rows.Next() {
		var s entities.ChecklistSection
		if err := rows.Scan(&s.ID, &s.Title, &s.Order); err != nil {
			return nil, fmt.Errorf("erro ao ler checklist_sections: %w", err)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *checklistRepository) ListItems(ctx context.Context) ([]entities.ChecklistItem, error) {
	query, args, err := psql().Select(itemFields...).From(itemTable).OrderBy("sort_order ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao montar ListItems: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entities.ChecklistItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanItem(row pgx.Row) (*entities.ChecklistItem, error) {
	var item entities.ChecklistItem
	var responseType string
	if err := row.Scan(&item.ID, &item.SectionID, &item.Title, &item.Order, &responseType, &item.Options); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("erro ao ler checklist_items: %w", err)
	}
	item.ResponseType = entities.ResponseType(responseType)
	if item.Options == nil {
		item.Options = []string{}
	}
	return &item, nil
}

func (r *checklistRepository) FindSection(ctx context.Context, id string) (*entities.ChecklistSection, error) {
	query, args, err := psql().Select(sectionFields...).From(sectionTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao montar FindSection: %w", err)
	}
	var s entities.ChecklistSection
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&s.ID, &s.Title, &s.Order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *checklistRepository) CreateSection(ctx context.Context, tx pgx.Tx, s entities.ChecklistSection) (string, error) {
	query, args, err := psql().Insert(sectionTable).
		Columns("title", "sort_order").
		Values(s.Title, s.Order).
		Suffix("RETURNING id::text").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("erro ao montar CreateSection: %w", err)
	}
	var id string
	if err := querierFor(r.storage, tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("erro ao criar seção: %w", err)
	}
	return id, nil
}

func (r *checklistRepository) UpdateSection(ctx context.Context, s entities.ChecklistSection) error {
	query, args, err := psql().Update(sectionTable).
		Set("title", s.Title).
		Set("sort_order", s.Order).
		Where(sq.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao montar UpdateSection: %w", err)
	}
	return r.execOne(ctx, query, args...)
}

// DeleteSection removes the section; its items go with it (ON DELETE CASCADE).
func (r *checklistRepository) DeleteSection(ctx context.Context, id string) error {
	query, args, err := psql().Delete(sectionTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("erro ao montar DeleteSection: %w", err)
	}
	return r.execOne(ctx, query, args...)
}

func (r *checklistRepository) FindItem(ctx context.Context, id string) (*entities.ChecklistItem, error) {
	query, args, err := psql().Select(itemFields...).From(itemTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao montar FindItem: %w", err)
	}
	return scanItem(r.storage.QueryRow(ctx, query, args...))
}

func (r *checklistRepository) CreateItem(ctx context.Context, tx pgx.Tx, item entities.ChecklistItem) (string, error) {
	options, err := jsonText(nonNilOptions(item.Options))
	if err != nil {
		return "", err
	}
	query, args, err := psql().Insert(itemTable).
		Columns("section_id", "title", "sort_order", "response_type", "options").
		Values(item.SectionID, item.Title, item.Order, string(item.ResponseType), sq.Expr("?::jsonb", options)).
		Suffix("RETURNING id::text").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("erro ao montar CreateItem: %w", err)
	}
	var id string
	if err := querierFor(r.storage, tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return "", fmt.Errorf("seção %s: %w", item.SectionID, apperrors.ErrNotFound)
		}
		return "", fmt.Errorf("erro ao criar item: %w", err)
	}
	return id, nil
}

func (r *checklistRepository) UpdateItem(ctx context.Context, item entities.ChecklistItem) error {
	options, err := jsonText(nonNilOptions(item.Options))
	if err != nil {
		return err
	}
	query, args, err := psql().Update(itemTable).
		Set("section_id", item.SectionID).
		Set("title", item.Title).
		Set("sort_order", item.Order).
		Set("response_type", string(item.ResponseType)).
		Set("options", sq.Expr("?::jsonb", options)).
		Where(sq.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao montar UpdateItem: %w", err)
	}
	err = r.execOne(ctx, query, args...)
	if isPgError(err, pgForeignKeyViolation) {
		return fmt.Errorf("seção %s: %w", item.SectionID, apperrors.ErrNotFound)
	}
	return err
}

func (r *checklistRepository) DeleteItem(ctx context.Context, id string) error {
	query, args, err := psql().Delete(itemTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("erro ao montar DeleteItem: %w", err)
	}
	return r.execOne(ctx, query, args...)
}

// DeleteAll clears the whole definition. Used when loading the default checklist.
func (r *checklistRepository) DeleteAll(ctx context.Context, tx pgx.Tx) error {
	_, err := querierFor(r.storage, tx).Exec(ctx, "DELETE FROM "+sectionTable)
	return err
}

func (r *checklistRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func nonNilOptions(options []string) []string {
	if options == nil {
		return []string{}
	}
	return options
}
