package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inspection-system/internal/checklist"
	"inspection-system/internal/dto"
	"inspection-system/internal/entities"
	"inspection-system/internal/repositories"
	apperrors "inspection-system/pkg/errors"
)

const (
	checklistVersionKey    = "checklist:version"
	checklistDefinitionKey = "checklist:definition:v%d"
)

// ChecklistDefinition is the configured checklist: every section and every
// item, each sorted by order.
type ChecklistDefinition struct {
	Sections []entities.ChecklistSection `json:"sections"`
	Items    []entities.ChecklistItem    `json:"items"`
}

func (d ChecklistDefinition) FindItem(sectionID, itemID string) (entities.ChecklistItem, bool) {
	return checklist.FindItem(d.Items, sectionID, itemID)
}

type ChecklistServiceInterface interface {
	Definition(ctx context.Context) (ChecklistDefinition, error)

	CreateSection(ctx context.Context, payload dto.CreateSectionDTO) (*entities.ChecklistSection, error)
	UpdateSection(ctx context.Context, id string, payload dto.UpdateSectionDTO) (*entities.ChecklistSection, error)
	DeleteSection(ctx context.Context, id string) error

	CreateItem(ctx context.Context, payload dto.CreateItemDTO) (*entities.ChecklistItem, error)
	UpdateItem(ctx context.Context, id string, payload dto.UpdateItemDTO) (*entities.ChecklistItem, error)
	DeleteItem(ctx context.Context, id string) error

	// LoadDefault installs DefaultTemplate. With replace=false an already
	// configured checklist is left alone and ErrConflict is returned.
	LoadDefault(ctx context.Context, replace bool) (ChecklistDefinition, error)
}

type checklistService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.ChecklistRepositoryInterface
	cache     repositories.CacheRepositoryInterface
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewChecklistService builds the definition service. cache may be nil, in
// which case every read goes to the database.
func NewChecklistService(
	txManager repositories.TxManagerInterface,
	repo repositories.ChecklistRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) ChecklistServiceInterface {
	return &checklistService{
		txManager: txManager,
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func (s *checklistService) Definition(ctx context.Context) (ChecklistDefinition, error) {
	key, cached, ok := s.readCache(ctx)
	if ok {
		return cached, nil
	}

	sections, err := s.repo.ListSections(ctx)
	if err != nil {
		return ChecklistDefinition{}, err
	}
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return ChecklistDefinition{}, err
	}
	def := ChecklistDefinition{Sections: checklist.SortSections(sections), Items: sortItems(items)}

	if key != "" {
		if payload, err := json.Marshal(def); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
				s.logger.Warn("falha ao gravar checklist no cache", zap.Error(err))
			}
		}
	}
	return def, nil
}

// readCache returns the versioned key to fill on a miss. An empty key means
// the cache is off or unreachable.
func (s *checklistService) readCache(ctx context.Context) (string, ChecklistDefinition, bool) {
	if s.cache == nil {
		return "", ChecklistDefinition{}, false
	}
	version := int64(0)
	raw, err := s.cache.Get(ctx, checklistVersionKey)
	switch {
	case err == nil:
		if _, scanErr := fmt.Sscan(raw, &version); scanErr != nil {
			version = 0
		}
	case errors.Is(err, repositories.ErrCacheMiss):
	default:
		s.logger.Warn("cache indisponível, lendo checklist do banco", zap.Error(err))
		return "", ChecklistDefinition{}, false
	}

	key := fmt.Sprintf(checklistDefinitionKey, version)
	payload, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("falha ao ler checklist do cache", zap.Error(err))
		}
		return key, ChecklistDefinition{}, false
	}
	var def ChecklistDefinition
	if err := json.Unmarshal([]byte(payload), &def); err != nil {
		s.logger.Warn("checklist em cache corrompido", zap.String("key", key), zap.Error(err))
		return key, ChecklistDefinition{}, false
	}
	return key, def, true
}

// invalidate bumps the version so readers move to a fresh key. Old keys
// expire on their own.
func (s *checklistService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, checklistVersionKey); err != nil {
		s.logger.Warn("falha ao invalidar cache do checklist", zap.Error(err))
	}
}

func (s *checklistService) CreateSection(ctx context.Context, payload dto.CreateSectionDTO) (*entities.ChecklistSection, error) {
	section := entities.ChecklistSection{Title: payload.Title, Order: payload.Order}
	id, err := s.repo.CreateSection(ctx, nil, section)
	if err != nil {
		return nil, err
	}
	section.ID = id
	s.invalidate(ctx)
	s.logger.Info("seção criada", zap.String("sectionID", id), zap.String("title", section.Title))
	return &section, nil
}

func (s *checklistService) UpdateSection(ctx context.Context, id string, payload dto.UpdateSectionDTO) (*entities.ChecklistSection, error) {
	section, err := s.repo.FindSection(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload.Title != nil {
		section.Title = *payload.Title
	}
	if payload.Order != nil {
		section.Order = *payload.Order
	}
	if err := s.repo.UpdateSection(ctx, *section); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return section, nil
}

func (s *checklistService) DeleteSection(ctx context.Context, id string) error {
	if err := s.repo.DeleteSection(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("seção removida com seus itens", zap.String("sectionID", id))
	return nil
}

func (s *checklistService) CreateItem(ctx context.Context, payload dto.CreateItemDTO) (*entities.ChecklistItem, error) {
	item := entities.ChecklistItem{
		SectionID:    payload.SectionID,
		Title:        payload.Title,
		Order:        payload.Order,
		ResponseType: entities.ResponseType(payload.ResponseType),
		Options:      payload.Options,
	}
	if err := checkItemDefinition(item); err != nil {
		return nil, err
	}
	id, err := s.repo.CreateItem(ctx, nil, item)
	if err != nil {
		return nil, err
	}
	item.ID = id
	s.invalidate(ctx)
	return &item, nil
}

func (s *checklistService) UpdateItem(ctx context.Context, id string, payload dto.UpdateItemDTO) (*entities.ChecklistItem, error) {
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload.Title != nil {
		item.Title = *payload.Title
	}
	if payload.Order != nil {
		item.Order = *payload.Order
	}
	if payload.ResponseType != nil {
		item.ResponseType = entities.ResponseType(*payload.ResponseType)
		if item.ResponseType != entities.ResponseOptions && payload.Options == nil {
			item.Options = []string{}
		}
	}
	if payload.Options != nil {
		item.Options = *payload.Options
	}
	if err := checkItemDefinition(*item); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateItem(ctx, *item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *checklistService) DeleteItem(ctx context.Context, id string) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *checklistService) LoadDefault(ctx context.Context, replace bool) (ChecklistDefinition, error) {
	existing, err := s.repo.ListSections(ctx)
	if err != nil {
		return ChecklistDefinition{}, err
	}
	if len(existing) > 0 && !replace {
		return ChecklistDefinition{}, fmt.Errorf("checklist já configurado: %w", apperrors.ErrConflict)
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.DeleteAll(ctx, tx); err != nil {
			return err
		}
		for i, tmpl := range checklist.DefaultTemplate {
			sectionID, err := s.repo.CreateSection(ctx, tx, entities.ChecklistSection{Title: tmpl.Title, Order: i + 1})
			if err != nil {
				return err
			}
			for j, ti := range tmpl.Items {
				_, err := s.repo.CreateItem(ctx, tx, entities.ChecklistItem{
					SectionID:    sectionID,
					Title:        ti.Title,
					Order:        j + 1,
					ResponseType: ti.ResponseType,
					Options:      ti.Options,
				})
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return ChecklistDefinition{}, err
	}

	s.invalidate(ctx)
	s.logger.Info("checklist padrão carregado", zap.Int("sections", len(checklist.DefaultTemplate)), zap.Bool("replace", replace))
	return s.Definition(ctx)
}

func checkItemDefinition(item entities.ChecklistItem) error {
	hasOptions := len(item.Options) > 0
	if item.ResponseType == entities.ResponseOptions && !hasOptions {
		return apperrors.NewInvalidInputError("item %q do tipo options precisa de opções", item.Title)
	}
	if item.ResponseType != entities.ResponseOptions && hasOptions {
		return apperrors.NewInvalidInputError("item %q do tipo %s não aceita opções", item.Title, item.ResponseType)
	}
	return nil
}

func sortItems(items []entities.ChecklistItem) []entities.ChecklistItem {
	out := slices.Clone(items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SectionID != out[j].SectionID {
			return out[i].SectionID < out[j].SectionID
		}
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}
