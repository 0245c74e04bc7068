package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenantID = uuid.MustParse("00000000-0000-0000-0000-0000000000bb")

func popularFixture() []domain.RankedProduct {
	return []domain.RankedProduct{
		ranked(product("Coffee", 25000), 40),
		ranked(product("Milk", 18000), 25),
		ranked(product("Bread", 15000), 12),
	}
}

func TestGetPopularProducts(t *testing.T) {
	repo := &fakeGraphRepo{popular: popularFixture()}
	engine := NewEngine(repo, DefaultOptions())

	recs, err := engine.GetPopularProducts(context.Background(), tenantID, 5, 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, []float64{100, 95, 90}, scores(recs))
	assert.Equal(t, DefaultPopularDays, repo.lastPopularDays)
	assert.Equal(t, "Coffee", recs[0].Name)
	assert.Equal(t, 80, recs[0].Confidence)
	assert.Contains(t, recs[0].RecommendationReason, "40 sold")

	_, err = engine.GetPopularProducts(context.Background(), tenantID, 5, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, repo.lastPopularDays)
}

func TestGetPopularProductsRespectsLimit(t *testing.T) {
	repo := &fakeGraphRepo{popular: popularFixture()}
	engine := NewEngine(repo, DefaultOptions())

	recs, err := engine.GetPopularProducts(context.Background(), tenantID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestGetNewArrivals(t *testing.T) {
	repo := &fakeGraphRepo{arrivals: []domain.CatalogProduct{product("Tea", 30000), product("Jam", 22000)}}
	engine := NewEngine(repo, DefaultOptions())

	recs, err := engine.GetNewArrivals(context.Background(), tenantID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{90, 86}, scores(recs))
	assert.Equal(t, 75, recs[1].Confidence)
	assert.Equal(t, DefaultNewArrivalDays, repo.lastArrivalDays)
}

func TestGetFrequentlyBoughtTogether(t *testing.T) {
	focal := product("Pasta", 20000)
	sauce := product("Sauce", 18000)
	cheese := product("Cheese", 45000)
	repo := &fakeGraphRepo{coPurchases: []domain.RankedProduct{
		ranked(sauce, 10),
		ranked(focal, 8),
		ranked(cheese, 2),
	}}
	engine := NewEngine(repo, DefaultOptions())

	recs, err := engine.GetFrequentlyBoughtTogether(context.Background(), tenantID, focal.ID, 10)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{sauce.ID, cheese.ID}, ids(recs))
	assert.Equal(t, []float64{100, 80}, scores(recs))
	assert.Equal(t, 95, recs[0].Confidence)
	assert.Equal(t, 70, recs[1].Confidence)
	assert.Equal(t, []uuid.UUID{focal.ID}, repo.lastSeeds)
	assert.Equal(t, []uuid.UUID{focal.ID}, repo.lastExclude)
}

func TestGetFrequentlyBoughtTogetherNilProduct(t *testing.T) {
	repo := &fakeGraphRepo{}
	engine := NewEngine(repo, DefaultOptions())

	recs, err := engine.GetFrequentlyBoughtTogether(context.Background(), tenantID, uuid.Nil, 10)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
	assert.Zero(t, repo.coPurchaseCalls)
}

func TestGetSimilarProductsUnknownProduct(t *testing.T) {
	engine := NewEngine(&fakeGraphRepo{}, DefaultOptions())

	recs, err := engine.GetSimilarProducts(context.Background(), tenantID, uuid.New(), 10)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestGetSimilarProductsTiers(t *testing.T) {
	category := uuid.New()
	brand := uuid.New()
	otherCategory := uuid.New()

	focal := product("Focal", 1000)
	focal.CategoryID = &category
	focal.BrandID = &brand

	both := product("Both", 900)
	both.CategoryID = &category
	both.BrandID = &brand

	bothFar := product("BothFar", 1250)
	bothFar.CategoryID = &category
	bothFar.BrandID = &brand

	categoryOnly := product("CategoryOnly", 1200)
	categoryOnly.CategoryID = &category

	brandOnly := product("BrandOnly", 1100)
	brandOnly.CategoryID = &otherCategory
	brandOnly.BrandID = &brand

	none := product("None", 1000)
	outOfBand := product("OutOfBand", 2000)
	outOfBand.CategoryID = &category
	outOfBand.BrandID = &brand

	repo := &fakeGraphRepo{
		details:   map[uuid.UUID]domain.CatalogProduct{focal.ID: focal},
		priceBand: []domain.CatalogProduct{none, brandOnly, categoryOnly, bothFar, both, focal, outOfBand},
	}
	engine := NewEngine(repo, DefaultOptions())

	recs, err := engine.GetSimilarProducts(context.Background(), tenantID, focal.ID, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(700), repo.lastMinPrice)
	assert.Equal(t, int64(1300), repo.lastMaxPrice)
	assert.Equal(t, []uuid.UUID{both.ID, bothFar.ID, categoryOnly.ID, brandOnly.ID, none.ID}, ids(recs))
	assert.Equal(t, []float64{100, 97, 64, 31, -2}, scores(recs))

	confidences := make([]int, 0, len(recs))
	for _, r := range recs {
		confidences = append(confidences, r.Confidence)
	}
	assert.Equal(t, []int{100, 100, 90, 80, 70}, confidences)
	assert.Equal(t, "Same category", recs[2].RecommendationReason)
}

func TestGetCartRecommendationsEmptyCartFallsBackToPopular(t *testing.T) {
	repo := &fakeGraphRepo{popular: popularFixture()}
	engine := NewEngine(repo, DefaultOptions())

	popular, err := engine.GetPopularProducts(context.Background(), tenantID, 5, 0)
	require.NoError(t, err)

	for _, cart := range [][]uuid.UUID{nil, {}, {uuid.Nil}} {
		recs, err := engine.GetCartRecommendations(context.Background(), tenantID, cart, 5)
		require.NoError(t, err)
		assert.Equal(t, popular, recs)
	}
	assert.Zero(t, repo.coPurchaseCalls)
}

func TestGetCartRecommendationsExcludesCartItems(t *testing.T) {
	chips := product("Chips", 12000)
	salsa := product("Salsa", 16000)
	soda := product("Soda", 8000)
	repo := &fakeGraphRepo{coPurchases: []domain.RankedProduct{
		ranked(salsa, 9),
		ranked(chips, 7),
		ranked(soda, 1),
	}}
	engine := NewEngine(repo, DefaultOptions())

	cart := []uuid.UUID{chips.ID, chips.ID}
	recs, err := engine.GetCartRecommendations(context.Background(), tenantID, cart, 10)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{salsa.ID, soda.ID}, ids(recs))
	assert.Equal(t, []float64{100, 84}, scores(recs))
	assert.Equal(t, 90, recs[0].Confidence)
	assert.Equal(t, 70, recs[1].Confidence)
	assert.Equal(t, []uuid.UUID{chips.ID}, repo.lastSeeds)
}

func TestGetPersonalizedRecommendationsWithoutHistory(t *testing.T) {
	repo := &fakeGraphRepo{popular: popularFixture()}
	engine := NewEngine(repo, DefaultOptions())

	popular, err := engine.GetPopularProducts(context.Background(), tenantID, 3, 0)
	require.NoError(t, err)

	recs, err := engine.GetPersonalizedRecommendations(context.Background(), tenantID, uuid.New(), 3)
	require.NoError(t, err)
	assert.Equal(t, popular, recs)
}

func TestGetPersonalizedRecommendationsBlend(t *testing.T) {
	category := uuid.New()
	owned := product("Owned", 10000)
	collab := product("Collab", 12000)
	content1 := product("Content1", 9000)
	content2 := product("Content2", 9500)
	customer := uuid.New()

	repo := &fakeGraphRepo{
		histories: map[uuid.UUID]domain.PurchaseHistory{
			customer: {ProductIDs: []uuid.UUID{owned.ID}, CategoryIDs: []uuid.UUID{category}},
		},
		coPurchases: []domain.RankedProduct{ranked(collab, 3), ranked(owned, 5)},
		byAttribute: []domain.CatalogProduct{content1, content2},
	}
	engine := NewEngine(repo, DefaultOptions())

	recs, err := engine.GetPersonalizedRecommendations(context.Background(), tenantID, customer, 4)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{collab.ID, content1.ID, content2.ID}, ids(recs))
	assert.Equal(t, []float64{100, 50, 48}, scores(recs))
	assert.Equal(t, 85, recs[0].Confidence)
	assert.Equal(t, 60, recs[1].Confidence)
	assert.ElementsMatch(t, []uuid.UUID{owned.ID, collab.ID}, repo.lastExclude)
	assert.NotContains(t, ids(recs), owned.ID)
}

func TestGetPersonalizedRecommendationsIsBoundedAndDistinct(t *testing.T) {
	category := uuid.New()
	customer := uuid.New()
	shared := product("Shared", 5000)

	repo := &fakeGraphRepo{
		histories: map[uuid.UUID]domain.PurchaseHistory{
			customer: {ProductIDs: []uuid.UUID{uuid.New()}, CategoryIDs: []uuid.UUID{category}},
		},
		coPurchases: []domain.RankedProduct{ranked(shared, 1), ranked(product("X", 1), 1), ranked(product("Y", 1), 1)},
		byAttribute: []domain.CatalogProduct{shared, product("Z", 1), product("W", 1)},
	}
	engine := NewEngine(repo, DefaultOptions())

	recs, err := engine.GetPersonalizedRecommendations(context.Background(), tenantID, customer, 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(recs), 3)

	seen := map[uuid.UUID]bool{}
	for _, r := range recs {
		assert.False(t, seen[r.ProductID], "duplicate %s", r.Name)
		seen[r.ProductID] = true
	}
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].RecommendationScore, recs[i].RecommendationScore)
	}
}

func TestGetRecommendationsBundle(t *testing.T) {
	shared := product("Shared", 10000)
	focal := product("Focal", 10000)
	cartItem := product("CartItem", 5000)
	customer := uuid.New()

	repo := &fakeGraphRepo{
		popular:     []domain.RankedProduct{ranked(shared, 30)},
		arrivals:    []domain.CatalogProduct{shared},
		coPurchases: []domain.RankedProduct{ranked(shared, 4)},
		details:     map[uuid.UUID]domain.CatalogProduct{focal.ID: focal},
		priceBand:   []domain.CatalogProduct{shared},
		histories: map[uuid.UUID]domain.PurchaseHistory{
			customer: {ProductIDs: []uuid.UUID{cartItem.ID}},
		},
	}
	engine := NewEngine(repo, DefaultOptions())

	bundle, err := engine.GetRecommendations(context.Background(), tenantID, domain.RecommendationContext{
		CustomerID: &customer,
		ProductID:  &focal.ID,
		CartItems:  []uuid.UUID{cartItem.ID},
	})
	require.NoError(t, err)

	keys := []string{
		domain.StrategyPersonalized,
		domain.StrategyFrequentlyBoughtTogether,
		domain.StrategySimilarProducts,
		domain.StrategyCartBased,
		domain.StrategyPopular,
		domain.StrategyNewArrivals,
	}
	assert.Len(t, bundle, len(keys))
	for _, key := range keys {
		require.Contains(t, bundle, key)
		assert.Equal(t, []uuid.UUID{shared.ID}, ids(bundle[key]), key)
	}
}

func TestGetRecommendationsWithoutContext(t *testing.T) {
	repo := &fakeGraphRepo{popular: popularFixture()}
	engine := NewEngine(repo, DefaultOptions())

	bundle, err := engine.GetRecommendations(context.Background(), tenantID, domain.RecommendationContext{})
	require.NoError(t, err)

	assert.Len(t, bundle, 2)
	assert.Len(t, bundle[domain.StrategyPopular], 3)
	assert.NotNil(t, bundle[domain.StrategyNewArrivals])
}

func TestRecommendationErrorsAreDataAccessErrors(t *testing.T) {
	repo := &fakeGraphRepo{err: errors.New("connection reset")}
	engine := NewEngine(repo, DefaultOptions())

	_, err := engine.GetRecommendations(context.Background(), tenantID, domain.RecommendationContext{})
	require.Error(t, err)

	var dae *domain.DataAccessError
	require.ErrorAs(t, err, &dae)
	assert.Equal(t, "get popular products", dae.Op)
	assert.ErrorIs(t, err, repo.err)
}

func TestNormalizeLimit(t *testing.T) {
	engine := NewEngine(&fakeGraphRepo{}, Options{})

	assert.Equal(t, DefaultLimit, engine.normalizeLimit(0))
	assert.Equal(t, DefaultLimit, engine.normalizeLimit(-3))
	assert.Equal(t, 4, engine.normalizeLimit(4))
	assert.Equal(t, MaxLimit, engine.normalizeLimit(1000))
}

func TestListParams(t *testing.T) {
	engine := NewEngine(&fakeGraphRepo{}, Options{PopularDays: 14, NewArrivalDays: 60})

	limit, days := engine.PopularParams(0, 0)
	assert.Equal(t, DefaultLimit, limit)
	assert.Equal(t, 14, days)

	limit, days = engine.PopularParams(500, 7)
	assert.Equal(t, MaxLimit, limit)
	assert.Equal(t, 7, days)

	limit, days = engine.NewArrivalParams(-1, -1)
	assert.Equal(t, DefaultLimit, limit)
	assert.Equal(t, 60, days)
}
