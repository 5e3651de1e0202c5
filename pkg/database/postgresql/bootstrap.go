package postgresql

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Bootstrap opens the pool and applies migrations exactly once. Every caller
// of Open, concurrent or later, gets the result of that single attempt.
type Bootstrap struct {
	dsn    string
	logger *zap.Logger

	once sync.Once
	pool *pgxpool.Pool
	err  error
}

func NewBootstrap(dsn string, logger *zap.Logger) *Bootstrap {
	return &Bootstrap{dsn: dsn, logger: logger}
}

func (b *Bootstrap) Open(ctx context.Context) (*pgxpool.Pool, error) {
	b.once.Do(func() {
		b.pool, b.err = b.connect(ctx)
	})
	return b.pool, b.err
}

func (b *Bootstrap) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
}

func (b *Bootstrap) connect(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, b.dsn)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar o pool de conexões: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("não foi possível conectar ao PostgreSQL: %w", err)
	}

	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	b.logger.Info("conectado ao PostgreSQL, migrações aplicadas")
	return pool, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("falha ao aplicar migrações: %w", err)
	}
	return nil
}
