package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/google/uuid"
)

var reorderHeaders = []string{
	"priority",
	"sku",
	"product_name",
	"current_stock",
	"reorder_point",
	"recommended_quantity",
	"estimated_cost",
	"reason",
}

// WriteReorderCSV writes recommendations in the order given, header first.
func WriteReorderCSV(w io.Writer, recs []domain.ReorderRecommendation) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(reorderHeaders); err != nil {
		return err
	}

	for _, rec := range recs {
		record := []string{
			string(rec.Priority),
			rec.SKU,
			rec.ProductName,
			strconv.Itoa(rec.CurrentStock),
			strconv.Itoa(rec.ReorderPoint),
			strconv.Itoa(rec.RecommendedQuantity),
			strconv.FormatInt(rec.EstimatedCost, 10),
			rec.Reason,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// RenderReorderCSV is WriteReorderCSV into memory, for uploads.
func RenderReorderCSV(recs []domain.ReorderRecommendation) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteReorderCSV(&buf, recs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReorderReportPrefix is the storage prefix holding a tenant's reports.
func ReorderReportPrefix(tenantID uuid.UUID) string {
	return "reorders/" + tenantID.String()
}

// ReorderReportKey names a tenant's report object, e.g.
// reorders/<tenant>/20250301T101500Z.csv
func ReorderReportKey(tenantID uuid.UUID, generatedAt time.Time) string {
	return fmt.Sprintf("%s/%s.csv", ReorderReportPrefix(tenantID), generatedAt.UTC().Format("20060102T150405Z"))
}
