package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inspection-system/internal/checklist"
	"inspection-system/internal/dto"
	"inspection-system/internal/entities"
	apperrors "inspection-system/pkg/errors"
)

func newChecklistService(repo *fakeChecklistRepo, cache *fakeCache) ChecklistServiceInterface {
	if cache == nil {
		return NewChecklistService(fakeTx{}, repo, nil, time.Minute, zap.NewNop())
	}
	return NewChecklistService(fakeTx{}, repo, cache, time.Minute, zap.NewNop())
}

func ptr[T any](v T) *T { return &v }

func TestDefinitionIsSortedAndCached(t *testing.T) {
	h := newHarness(t)
	cache := newFakeCache()
	svc := newChecklistService(h.checklistRepo, cache)
	ctx := context.Background()

	def, err := svc.Definition(ctx)
	require.NoError(t, err)
	require.Len(t, def.Sections, 2)
	assert.Equal(t, secID, def.Sections[0].ID)
	assert.Len(t, def.Items, 5)

	again, err := svc.Definition(ctx)
	require.NoError(t, err)
	assert.Equal(t, def, again)
	assert.Equal(t, 1, h.checklistRepo.lists)
}

func TestDefinitionCacheInvalidatedOnChange(t *testing.T) {
	h := newHarness(t)
	cache := newFakeCache()
	svc := newChecklistService(h.checklistRepo, cache)
	ctx := context.Background()

	_, err := svc.Definition(ctx)
	require.NoError(t, err)

	_, err = svc.CreateSection(ctx, dto.CreateSectionDTO{Title: "Limpeza", Order: 3})
	require.NoError(t, err)

	def, err := svc.Definition(ctx)
	require.NoError(t, err)
	assert.Len(t, def.Sections, 3)
	assert.Equal(t, "Limpeza", def.Sections[2].Title)
	assert.Equal(t, 2, h.checklistRepo.lists)
}

func TestDefinitionFallsBackWhenCacheIsDown(t *testing.T) {
	h := newHarness(t)
	cache := newFakeCache()
	cache.err = errors.New("redis: connection refused")
	svc := newChecklistService(h.checklistRepo, cache)

	def, err := svc.Definition(context.Background())
	require.NoError(t, err)
	assert.Len(t, def.Sections, 2)
}

func TestCreateItemChecksOptions(t *testing.T) {
	h := newHarness(t)
	svc := newChecklistService(h.checklistRepo, nil)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, dto.CreateItemDTO{SectionID: secExt, Title: "Vidros", ResponseType: "options"})
	assert.Error(t, err)

	_, err = svc.CreateItem(ctx, dto.CreateItemDTO{SectionID: secExt, Title: "Obs", ResponseType: "text", Options: []string{"x"}})
	assert.Error(t, err)

	item, err := svc.CreateItem(ctx, dto.CreateItemDTO{SectionID: secExt, Title: "Vidros", ResponseType: "options", Options: []string{"Ok", "Trincado"}})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
}

func TestUpdateItemTypeChange(t *testing.T) {
	h := newHarness(t)
	svc := newChecklistService(h.checklistRepo, nil)
	ctx := context.Background()

	updated, err := svc.UpdateItem(ctx, itemPnt, dto.UpdateItemDTO{ResponseType: ptr("text")})
	require.NoError(t, err)
	assert.Equal(t, entities.ResponseText, updated.ResponseType)
	assert.Empty(t, updated.Options)

	_, err = svc.UpdateItem(ctx, itemKm, dto.UpdateItemDTO{ResponseType: ptr("options")})
	assert.Error(t, err)

	updated, err = svc.UpdateItem(ctx, itemKm, dto.UpdateItemDTO{ResponseType: ptr("options"), Options: &[]string{"< 50 mil", "> 50 mil"}})
	require.NoError(t, err)
	assert.Len(t, updated.Options, 2)
}

func TestDeleteSectionCascadesItems(t *testing.T) {
	h := newHarness(t)
	svc := newChecklistService(h.checklistRepo, nil)
	ctx := context.Background()

	require.NoError(t, svc.DeleteSection(ctx, secExt))
	def, err := svc.Definition(ctx)
	require.NoError(t, err)
	assert.Len(t, def.Sections, 1)
	for _, item := range def.Items {
		assert.Equal(t, secID, item.SectionID)
	}
	assert.ErrorIs(t, svc.DeleteSection(ctx, secExt), apperrors.ErrNotFound)
}

func TestLoadDefault(t *testing.T) {
	repo := &fakeChecklistRepo{}
	svc := newChecklistService(repo, newFakeCache())
	ctx := context.Background()

	def, err := svc.LoadDefault(ctx, false)
	require.NoError(t, err)
	require.Len(t, def.Sections, len(checklist.DefaultTemplate))
	assert.Equal(t, "Identificação do Veículo", def.Sections[0].Title)
	assert.Equal(t, "Documentação", def.Sections[len(def.Sections)-1].Title)

	_, err = svc.LoadDefault(ctx, false)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	again, err := svc.LoadDefault(ctx, true)
	require.NoError(t, err)
	assert.Len(t, again.Sections, len(checklist.DefaultTemplate))
	assert.Len(t, again.Items, len(def.Items))
}
