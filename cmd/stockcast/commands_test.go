package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/report"
	"github.com/andresuchdata/stockcast/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationContext(t *testing.T) {
	customer := uuid.New()
	item := uuid.New()

	rc, err := recommendationContext(customer.String(), "", []string{item.String()}, 5)
	require.NoError(t, err)

	require.NotNil(t, rc.CustomerID)
	assert.Equal(t, customer, *rc.CustomerID)
	assert.Nil(t, rc.ProductID)
	assert.Equal(t, []uuid.UUID{item}, rc.CartItems)
	assert.Equal(t, 5, rc.Limit)
}

func TestRecommendationContextRejectsBadIDs(t *testing.T) {
	_, err := recommendationContext("", "sku-42", nil, 0)
	assert.Error(t, err)

	_, err = recommendationContext("", "", []string{uuid.NewString(), "oops"}, 0)
	assert.Error(t, err)
}

func TestUploadReportToLocalStorage(t *testing.T) {
	dir := t.TempDir()
	tenant := uuid.New()

	key, err := uploadReport(context.Background(), config.StorageConfig{Driver: storage.DriverLocal, ExportDir: dir}, tenant, []byte("priority\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, report.ReorderReportPrefix(tenant)+"/"))

	store, err := storage.NewLocalClient(dir)
	require.NoError(t, err)
	reports, err := listReports(context.Background(), store, tenant)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, key, reports[0].Key)
}

func TestFetchReport(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalClient(dir)
	require.NoError(t, err)

	ctx := context.Background()
	tenant, other := uuid.New(), uuid.New()
	older := report.ReorderReportPrefix(tenant) + "/20250301T090000Z.csv"
	newer := report.ReorderReportPrefix(tenant) + "/20250302T090000Z.csv"
	foreign := report.ReorderReportPrefix(other) + "/20250303T090000Z.csv"
	require.NoError(t, store.UploadObject(ctx, older, []byte("older\n")))
	require.NoError(t, store.UploadObject(ctx, newer, []byte("newer\n")))
	require.NoError(t, store.UploadObject(ctx, foreign, []byte("foreign\n")))

	base := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(dir, older), base.Add(-24*time.Hour), base.Add(-24*time.Hour)))
	require.NoError(t, os.Chtimes(filepath.Join(dir, newer), base, base))

	key, data, err := fetchReport(ctx, store, tenant, "")
	require.NoError(t, err)
	assert.Equal(t, newer, key)
	assert.Equal(t, "newer\n", string(data))

	key, data, err = fetchReport(ctx, store, tenant, older)
	require.NoError(t, err)
	assert.Equal(t, older, key)
	assert.Equal(t, "older\n", string(data))

	_, _, err = fetchReport(ctx, store, tenant, foreign)
	assert.Error(t, err)

	_, _, err = fetchReport(ctx, store, uuid.New(), "")
	assert.Error(t, err)
}

func TestListReportsEmpty(t *testing.T) {
	dir := t.TempDir()
	tenant := uuid.New()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, report.ReorderReportPrefix(tenant)), 0o755))
	store, err := storage.NewLocalClient(dir)
	require.NoError(t, err)

	reports, err := listReports(context.Background(), store, tenant)
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)
}
