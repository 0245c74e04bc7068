package recommend

import (
	"sort"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/google/uuid"
)

func newRecommendation(p domain.CatalogProduct, score float64, reason string, confidence int) domain.ProductRecommendation {
	return domain.ProductRecommendation{
		ProductID:            p.ID,
		Name:                 p.Name,
		SKU:                  p.SKU,
		Price:                p.Price,
		CategoryID:           p.CategoryID,
		BrandID:              p.BrandID,
		RecommendationScore:  score,
		RecommendationReason: reason,
		Confidence:           max(0, min(100, confidence)),
	}
}

// mergeRecommendations flattens lists, keeps the highest scoring entry per
// product id, orders by descending score and truncates to limit. Equal scores
// keep their first-seen order.
func mergeRecommendations(limit int, lists ...[]domain.ProductRecommendation) []domain.ProductRecommendation {
	merged := make([]domain.ProductRecommendation, 0)
	index := make(map[uuid.UUID]int)

	for _, list := range lists {
		for _, rec := range list {
			if i, ok := index[rec.ProductID]; ok {
				if rec.RecommendationScore > merged[i].RecommendationScore {
					merged[i] = rec
				}
				continue
			}
			index[rec.ProductID] = len(merged)
			merged = append(merged, rec)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RecommendationScore > merged[j].RecommendationScore
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// excluding drops recommendations for any of ids.
func excluding(recs []domain.ProductRecommendation, ids []uuid.UUID) []domain.ProductRecommendation {
	if len(ids) == 0 {
		return recs
	}
	skip := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		skip[id] = struct{}{}
	}

	out := recs[:0:0]
	for _, r := range recs {
		if _, ok := skip[r.ProductID]; !ok {
			out = append(out, r)
		}
	}
	return out
}

// uniqueIDs drops nil and repeated ids, keeping order.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
