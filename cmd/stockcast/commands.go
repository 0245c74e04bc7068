package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/recommend"
	"github.com/andresuchdata/stockcast/internal/report"
	"github.com/andresuchdata/stockcast/internal/repository/postgres"
	"github.com/andresuchdata/stockcast/internal/service"
	"github.com/andresuchdata/stockcast/internal/storage"
	"github.com/andresuchdata/stockcast/pkg/logger"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func inventoryService(c *cli.Context) (*service.InventoryService, uuid.UUID, error) {
	db, err := dbFrom(c)
	if err != nil {
		return nil, uuid.Nil, err
	}
	tenantID, err := tenantFrom(c)
	if err != nil {
		return nil, uuid.Nil, err
	}

	cfg := config.Load()
	engine := forecast.NewEngine(postgres.NewSalesHistoryRepository(db), service.NewForecastEngineOptions(cfg.Forecast))
	return service.NewInventoryService(engine, nil, cfg.Forecast), tenantID, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runForecast(c *cli.Context) error {
	svc, tenantID, err := inventoryService(c)
	if err != nil {
		return err
	}
	productID, err := parseID("product", c.String("product"))
	if err != nil {
		return err
	}

	result, err := svc.ForecastDemand(c.Context, tenantID, productID, c.Int("days"))
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("product %s not found", productID)
	}
	return writeJSON(os.Stdout, result)
}

func runStockoutRisks(c *cli.Context) error {
	svc, tenantID, err := inventoryService(c)
	if err != nil {
		return err
	}

	threshold := domain.StockoutThresholdUnset
	if c.IsSet("days") {
		threshold = c.Int("days")
	}

	risks, err := svc.GetStockoutRisks(c.Context, tenantID, threshold)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, risks)
}

func runReorder(c *cli.Context) error {
	svc, tenantID, err := inventoryService(c)
	if err != nil {
		return err
	}

	recs, err := svc.GetReorderRecommendations(c.Context, tenantID)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, recs)
}

func runHealth(c *cli.Context) error {
	svc, tenantID, err := inventoryService(c)
	if err != nil {
		return err
	}

	health, err := svc.GetInventoryHealth(c.Context, tenantID)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, health)
}

func runRecommend(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}

	rc, err := recommendationContext(c.String("customer"), c.String("product"), c.StringSlice("cart"), c.Int("limit"))
	if err != nil {
		return err
	}

	cfg := config.Load()
	engine := recommend.NewEngine(postgres.NewPurchaseGraphRepository(db), service.NewRecommendEngineOptions(cfg.Recommend))
	bundle, err := service.NewRecommendationService(engine, nil).GetRecommendations(c.Context, tenantID, rc)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, bundle)
}

// recommendationContext builds the context from optional CLI ids.
func recommendationContext(customer, product string, cart []string, limit int) (domain.RecommendationContext, error) {
	rc := domain.RecommendationContext{Limit: limit}

	if customer != "" {
		id, err := parseID("customer", customer)
		if err != nil {
			return rc, err
		}
		rc.CustomerID = &id
	}
	if product != "" {
		id, err := parseID("product", product)
		if err != nil {
			return rc, err
		}
		rc.ProductID = &id
	}
	for _, raw := range cart {
		id, err := parseID("cart item", raw)
		if err != nil {
			return rc, err
		}
		rc.CartItems = append(rc.CartItems, id)
	}

	return rc, nil
}

func runExportReorders(c *cli.Context) error {
	svc, tenantID, err := inventoryService(c)
	if err != nil {
		return err
	}

	recs, err := svc.GetReorderRecommendations(c.Context, tenantID)
	if err != nil {
		return err
	}

	data, err := report.RenderReorderCSV(recs)
	if err != nil {
		return fmt.Errorf("render reorder csv: %w", err)
	}

	if out := c.String("out"); out != "" {
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		logger.Log.Info().Str("path", out).Int("rows", len(recs)).Msg("reorder report written")
	} else if !c.Bool("upload") {
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
	}

	if c.Bool("upload") {
		key, err := uploadReport(c.Context, config.Load().Storage, tenantID, data)
		if err != nil {
			return err
		}
		logger.Log.Info().Str("key", key).Int("rows", len(recs)).Msg("reorder report uploaded")
	}

	return nil
}

func openStorage(cfg config.StorageConfig) (storage.ObjectStorage, error) {
	store, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return store, nil
}

func uploadReport(ctx context.Context, cfg config.StorageConfig, tenantID uuid.UUID, data []byte) (string, error) {
	store, err := openStorage(cfg)
	if err != nil {
		return "", err
	}

	key := report.ReorderReportKey(tenantID, time.Now())
	if err := store.UploadObject(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

func runListReports(c *cli.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	store, err := openStorage(config.Load().Storage)
	if err != nil {
		return err
	}

	reports, err := listReports(c.Context, store, tenantID)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, reports)
}

func listReports(ctx context.Context, store storage.ObjectStorage, tenantID uuid.UUID) ([]storage.ObjectInfo, error) {
	reports, err := store.ListObjects(ctx, report.ReorderReportPrefix(tenantID))
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []storage.ObjectInfo{}
	}
	return reports, nil
}

func runFetchReport(c *cli.Context) error {
	tenantID, err := tenantFrom(c)
	if err != nil {
		return err
	}
	store, err := openStorage(config.Load().Storage)
	if err != nil {
		return err
	}

	key, data, err := fetchReport(c.Context, store, tenantID, c.String("key"))
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	logger.Log.Info().Str("key", key).Str("path", out).Msg("reorder report fetched")
	return nil
}

// fetchReport reads key, or the tenant's newest report when key is empty.
// Keys outside the tenant's prefix are rejected.
func fetchReport(ctx context.Context, store storage.ObjectStorage, tenantID uuid.UUID, key string) (string, []byte, error) {
	prefix := report.ReorderReportPrefix(tenantID)

	if key == "" {
		reports, err := store.ListObjects(ctx, prefix)
		if err != nil {
			return "", nil, err
		}
		if len(reports) == 0 {
			return "", nil, fmt.Errorf("no reorder reports for tenant %s", tenantID)
		}
		key = reports[0].Key
	}

	if !strings.HasPrefix(key, prefix+"/") {
		return "", nil, fmt.Errorf("report %s does not belong to tenant %s", key, tenantID)
	}

	data, err := store.GetObject(ctx, key)
	if err != nil {
		return "", nil, err
	}
	return key, data, nil
}
