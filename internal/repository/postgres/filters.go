package postgres

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Shared query fragments. Every query is scoped by tenant ($1) and only sees
// active, non-deleted products; sales only count completed orders.
const (
	activeProductClause  = `p.tenant_id = $1 AND p.is_active AND p.deleted_at IS NULL`
	completedOrderClause = `o.tenant_id = $1 AND o.status = 'completed'`

	catalogColumns = `p.id, p.name, p.sku, p.price, p.category_id, p.brand_id, p.created_at`
)

// uuidArray binds ids as a text[] parameter; queries cast it with ::uuid[].
func uuidArray(ids []uuid.UUID) interface{} {
	values := make([]string, len(ids))
	for i, id := range ids {
		values[i] = id.String()
	}
	return pq.StringArray(values)
}
