package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"inspection-system/internal/services"
	apperrors "inspection-system/pkg/errors"
)

// SeedDefaultChecklist installs the default checklist unless one is
// already configured.
func SeedDefaultChecklist(ctx context.Context, checklistSvc services.ChecklistServiceInterface) error {
	log.Println("▶️  Carregando checklist padrão...")

	def, err := checklistSvc.LoadDefault(ctx, false)
	if errors.Is(err, apperrors.ErrConflict) {
		log.Println("    - Checklist já configurado. Pulando.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("falha ao carregar checklist padrão: %w", err)
	}

	log.Printf("✅ Checklist padrão criado: %d seções, %d itens", len(def.Sections), len(def.Items))
	return nil
}
