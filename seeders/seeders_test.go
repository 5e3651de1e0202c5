package seeders

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspection-system/internal/dto"
	"inspection-system/internal/entities"
	"inspection-system/internal/services"
	"inspection-system/pkg/config"
	apperrors "inspection-system/pkg/errors"
)

type stubChecklistService struct {
	services.ChecklistServiceInterface
	err      error
	replaces []bool
}

func (s *stubChecklistService) LoadDefault(_ context.Context, replace bool) (services.ChecklistDefinition, error) {
	s.replaces = append(s.replaces, replace)
	if s.err != nil {
		return services.ChecklistDefinition{}, s.err
	}
	return services.ChecklistDefinition{
		Sections: []entities.ChecklistSection{{ID: "s1"}},
		Items:    []entities.ChecklistItem{{ID: "i1", SectionID: "s1"}},
	}, nil
}

type stubAuthService struct {
	created bool
	err     error
	calls   int
}

func (s *stubAuthService) Login(context.Context, dto.LoginDTO) (*entities.User, error) {
	return nil, apperrors.ErrInvalidCredentials
}

func (s *stubAuthService) EnsureAdmin(context.Context, string, string) (bool, error) {
	s.calls++
	return s.created, s.err
}

func TestSeedDefaultChecklistNeverReplaces(t *testing.T) {
	svc := &stubChecklistService{}
	require.NoError(t, SeedDefaultChecklist(context.Background(), svc))
	assert.Equal(t, []bool{false}, svc.replaces)
}

func TestSeedDefaultChecklistSkipsConfigured(t *testing.T) {
	svc := &stubChecklistService{err: fmt.Errorf("checklist já configurado: %w", apperrors.ErrConflict)}
	assert.NoError(t, SeedDefaultChecklist(context.Background(), svc))
}

func TestSeedDefaultChecklistPropagatesFailures(t *testing.T) {
	boom := errors.New("db down")
	svc := &stubChecklistService{err: boom}
	assert.ErrorIs(t, SeedDefaultChecklist(context.Background(), svc), boom)
}

func TestSeedMasterAdmin(t *testing.T) {
	t.Run("sem senha não faz nada", func(t *testing.T) {
		auth := &stubAuthService{}
		require.NoError(t, SeedMasterAdmin(context.Background(), auth, config.SeedConfig{AdminUsername: "admin"}))
		assert.Zero(t, auth.calls)
	})

	t.Run("idempotente", func(t *testing.T) {
		auth := &stubAuthService{created: false}
		cfg := config.SeedConfig{AdminUsername: "admin", AdminPassword: "segredo123"}
		require.NoError(t, SeedMasterAdmin(context.Background(), auth, cfg))
		require.NoError(t, SeedMasterAdmin(context.Background(), auth, cfg))
		assert.Equal(t, 2, auth.calls)
	})

	t.Run("erro é propagado", func(t *testing.T) {
		auth := &stubAuthService{err: errors.New("falhou")}
		cfg := config.SeedConfig{AdminUsername: "admin", AdminPassword: "segredo123"}
		assert.Error(t, SeedMasterAdmin(context.Background(), auth, cfg))
	})
}
