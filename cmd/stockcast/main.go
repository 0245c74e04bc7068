package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/repository/postgres"
	"github.com/andresuchdata/stockcast/pkg/logger"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type contextKey string

const dbKey contextKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newTenantFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "tenant",
		Usage:    "Tenant id the command is scoped to",
		Required: true,
		EnvVars:  []string{"STOCKCAST_TENANT_ID"},
	}
}

func newLimitFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "limit",
		Usage: "Maximum number of products per list (0 uses the configured default)",
	}
}

func initLogging(c *cli.Context) error {
	cfg := config.Load()
	logger.Configure(cfg.Log.Level, cfg.Log.JSON)
	return nil
}

func initDB(c *cli.Context) error {
	cfg := config.Load()
	if err := initLogging(c); err != nil {
		return err
	}

	// Initialize database connection
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Store the database connection in the context
	c.Context = context.WithValue(c.Context, dbKey, postgres.Wrap(sqlx.NewDb(db, "pgx"), cfg.Database.MaxConcurrentQueries))
	return nil
}

func closeDB(c *cli.Context) error {
	// Close the database connection when done
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

func tenantFrom(c *cli.Context) (uuid.UUID, error) {
	return parseID("tenant", c.String("tenant"))
}

func parseID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q: %w", name, raw, err)
	}
	return id, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("could not load .env file")
	}

	app := &cli.App{
		Name:  "stockcast",
		Usage: "Inventory forecasting and product recommendations from the command line",
		Commands: []*cli.Command{
			{
				Name:  "forecast",
				Usage: "Forecast demand for one product",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newTenantFlag(),
					&cli.StringFlag{Name: "product", Usage: "Product id", Required: true},
					&cli.IntFlag{Name: "days", Usage: "Forecast horizon in days", Value: 30},
				},
				Before: initDB,
				After:  closeDB,
				Action: runForecast,
			},
			{
				Name:  "stockout-risks",
				Usage: "List products at risk of running out",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newTenantFlag(),
					&cli.IntFlag{Name: "days", Usage: "Days-until-stockout threshold (defaults to the configured threshold)"},
				},
				Before: initDB,
				After:  closeDB,
				Action: runStockoutRisks,
			},
			{
				Name:   "reorder",
				Usage:  "List reorder recommendations",
				Flags:  []cli.Flag{newDBURLFlag(), newTenantFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runReorder,
			},
			{
				Name:   "health",
				Usage:  "Show the inventory health rollup",
				Flags:  []cli.Flag{newDBURLFlag(), newTenantFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runHealth,
			},
			{
				Name:  "recommend",
				Usage: "Build a recommendation bundle for a customer, product or cart",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newTenantFlag(),
					newLimitFlag(),
					&cli.StringFlag{Name: "customer", Usage: "Customer id"},
					&cli.StringFlag{Name: "product", Usage: "Product id being viewed"},
					&cli.StringSliceFlag{Name: "cart", Usage: "Product ids in the cart (repeatable)"},
				},
				Before: initDB,
				After:  closeDB,
				Action: runRecommend,
			},
			{
				Name:  "export-reorders",
				Usage: "Write reorder recommendations as CSV and optionally upload them",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newTenantFlag(),
					&cli.StringFlag{Name: "out", Usage: "Write the CSV to this path instead of stdout"},
					&cli.BoolFlag{Name: "upload", Usage: "Upload the CSV to the configured object storage"},
				},
				Before: initDB,
				After:  closeDB,
				Action: runExportReorders,
			},
			{
				Name:   "list-reports",
				Usage:  "List the tenant's exported reorder reports, newest first",
				Flags:  []cli.Flag{newTenantFlag()},
				Before: initLogging,
				Action: runListReports,
			},
			{
				Name:  "fetch-report",
				Usage: "Download an exported reorder report (the newest when --key is omitted)",
				Flags: []cli.Flag{
					newTenantFlag(),
					&cli.StringFlag{Name: "key", Usage: "Report key as printed by list-reports"},
					&cli.StringFlag{Name: "out", Usage: "Write the CSV to this path instead of stdout"},
				},
				Before: initLogging,
				Action: runFetchReport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}
