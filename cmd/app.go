package cmd

import (
	"context"
	"net/http"

	"coffeerange/internal/config"
	"coffeerange/internal/grades"
	"coffeerange/internal/interaction/ecx"
	"coffeerange/internal/pricerange"
	"coffeerange/internal/repository/catalog"
	"coffeerange/internal/repository/prices"
	"coffeerange/internal/repository/redisprices"
	"coffeerange/internal/storage"
	"coffeerange/internal/usecases"
)

type ledger interface {
	pricerange.Ledger
	usecases.Ledger
}

// app holds the wiring shared by the commands.
type app struct {
	postgres *storage.PostgresConnection
	redis    *storage.RedisConnection

	ledger  ledger
	catalog *catalog.Repository
	grades  *grades.Set

	query   *usecases.QueryRangesUseCase
	record  *usecases.RecordPricesUseCase
	bands   *usecases.ManageCatalogUseCase
	publish *usecases.PublishRangesUseCase
	imports *usecases.ImportPricesUseCase
}

// mustNewApp connects the stores and builds the use cases. Publishers may be nil.
func mustNewApp(ctx context.Context, pricePublisher usecases.PricePublisher, snapshotPublisher usecases.SnapshotPublisher) *app {
	a := &app{}

	a.postgres = storage.MustNewPostgresConnection(logger, cnf.Database.ConnString(), cnf.Logger.ParsedGORMLevel)
	a.postgres.MustMigration()
	a.catalog = catalog.NewRepository(a.postgres.DB)

	switch cnf.Storage.Ledger {
	case config.LedgerRedis:
		a.redis = storage.MustNewRedisConnection(ctx, cnf.Redis.Addr, cnf.Redis.Password, cnf.Redis.DB)
		a.ledger = redisprices.NewRepository(a.redis.Client, cnf.Redis.KeyPrefix)
	default:
		a.ledger = prices.NewRepository(a.postgres.DB)
	}

	a.grades = grades.NewSet(cnf.Engine.Grades, !cnf.Engine.FreeformGrades)

	engine := pricerange.NewEngine(logger, a.ledger, cnf.Engine.ParsedDayCount)
	a.query = usecases.NewQueryRangesUseCase(logger, engine, a.catalog, a.grades, usecases.QueryConfig{
		ParallelLookups: cnf.Engine.ParallelLookups,
		LookupTimeout:   cnf.Engine.LookupTimeout,
	})
	a.record = usecases.NewRecordPricesUseCase(logger, a.ledger, a.grades, pricePublisher)
	a.bands = usecases.NewManageCatalogUseCase(logger, a.catalog, a.grades)
	a.publish = usecases.NewPublishRangesUseCase(logger, a.query, snapshotPublisher)

	if cnf.ECX.Enabled() {
		board := ecx.NewInteraction(logger, &http.Client{Timeout: cnf.ECX.Timeout}, cnf.ECX.URL)
		a.imports = usecases.NewImportPricesUseCase(logger, board, a.record, cnf.ECX.ParsedOperatorID)
	}

	return a
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.MustClose()
	}
	a.postgres.MustClose()
}
