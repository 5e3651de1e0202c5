package seeders

import (
	"context"
	"fmt"
	"log"

	"inspection-system/internal/services"
	"inspection-system/pkg/config"
)

// SeedMasterAdmin creates the first admin account. Running it again once an
// admin exists is a no-op.
func SeedMasterAdmin(ctx context.Context, authSvc services.AuthServiceInterface, cfg config.SeedConfig) error {
	log.Println("▶️  Verificando administrador master...")

	if cfg.AdminPassword == "" {
		log.Println("    - SEED_ADMIN_PASSWORD não definido. Pulando.")
		return nil
	}

	created, err := authSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("falha ao criar administrador master: %w", err)
	}
	if !created {
		log.Println("    - Já existe um administrador. Pulando.")
		return nil
	}

	log.Printf("✅ Administrador master '%s' criado", cfg.AdminUsername)
	return nil
}
