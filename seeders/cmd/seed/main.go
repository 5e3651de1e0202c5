package main

import (
	"context"
	"flag"
	"log"

	"github.com/go-redis/redis/v8"

	"inspection-system/pkg/config"
	"inspection-system/pkg/database/postgresql"
	applogger "inspection-system/pkg/logger"
	"inspection-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 SEEDERS (carga inicial do banco)            ")
	log.Println("======================================================")

	runChecklist := flag.Bool("checklist", false, "Carregar o checklist padrão (se ainda não houver um)")
	runAdmin := flag.Bool("admin", false, "Criar o administrador master (se ainda não houver um)")
	runAll := flag.Bool("all", false, "Rodar todos os seeders (equivale a -checklist -admin)")

	flag.Parse()

	if !*runChecklist && !*runAdmin && !*runAll {
		log.Println("❌ Nenhum seeder selecionado.")
		log.Println("")
		log.Println("Flags disponíveis:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Exemplos:")
		log.Println("  go run ./seeders/cmd/seed -checklist")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Server.LogFile)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	boot := postgresql.NewBootstrap(cfg.Postgres.DSN, logger)
	dbPool, err := boot.Open(ctx)
	if err != nil {
		log.Fatalf("❌ Falha ao conectar no banco: %v", err)
	}
	defer boot.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis indisponível (%v), o cache do checklist expira sozinho", err)
		redisClient = nil
	}

	log.Println("======================================================")

	opts := seeders.Options{
		Checklist: *runAll || *runChecklist,
		Admin:     *runAll || *runAdmin,
	}
	if err := seeders.Run(ctx, dbPool, redisClient, cfg, logger, opts); err != nil {
		log.Fatalf("❌ %v", err)
	}

	log.Println("✅ Seeders concluídos.")
	log.Println("======================================================")
}
