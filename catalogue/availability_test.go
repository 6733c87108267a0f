package catalogue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"brouette/models"
)

func shopDistribution() *models.Distribution {
	return &models.Distribution{
		DistributionID: "dist1",
		Status:         models.DistributionOpen,
		Dates: []time.Time{
			time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 16, 18, 0, 0, 0, time.UTC),
		},
	}
}

func shopItems() []models.OfferItem {
	return []models.OfferItem{
		{OfferItemID: "dist1_p1_v1_0", DistributionID: "dist1", ProducerID: "farm1", ProductID: "p1", VariantID: "v1",
			DateIndex: 0, Price: 4.50, Title: "Tomates anciennes", VariantLabel: "1kg", IsOrganic: true, CategoryID: "legumes", LimitPerMember: 2},
		{OfferItemID: "dist1_p1_v2_1", DistributionID: "dist1", ProducerID: "farm1", ProductID: "p1", VariantID: "v2",
			DateIndex: 1, Price: 2.50, Title: "Tomates anciennes", VariantLabel: "500g", IsOrganic: true, CategoryID: "legumes"},
		{OfferItemID: "dist1_p2_v3_0", DistributionID: "dist1", ProducerID: "farm2", ProductID: "p2", VariantID: "v3",
			DateIndex: 0, Price: 3.20, Title: "Fromage de chèvre", VariantLabel: "pièce", CategoryID: "cremerie"},
		// Stale item pointing past the distribution's dates.
		{OfferItemID: "dist1_p3_v4_5", DistributionID: "dist1", ProducerID: "farm2", ProductID: "p3", VariantID: "v4",
			DateIndex: 5, Price: 9.99, Title: "Confiture"},
	}
}

func TestBuildShopGroupsAndPrices(t *testing.T) {
	products := BuildShop(shopDistribution(), shopItems(), Filter{})
	assert.Len(t, products, 2)

	// Sorted by title: Fromage first.
	cheese, tomatoes := products[0], products[1]
	assert.Equal(t, "Fromage de chèvre", cheese.Title)
	assert.False(t, cheese.HasLimits)

	assert.Equal(t, "Tomates anciennes", tomatoes.Title)
	assert.Equal(t, 2.50, tomatoes.PriceMin)
	assert.Equal(t, 4.50, tomatoes.PriceMax)
	assert.True(t, tomatoes.HasLimits)
	assert.Equal(t, []string{"2026-09-02", "2026-09-16"}, tomatoes.Dates)
	assert.Len(t, tomatoes.Offers, 2)
	assert.Equal(t, "02/09/2026", tomatoes.Offers[0].SaleDateLabel)
}

func TestBuildShopDropsStaleDateIndexes(t *testing.T) {
	products := BuildShop(shopDistribution(), shopItems(), Filter{})
	for _, p := range products {
		assert.NotEqual(t, "p3", p.ProductID)
	}
}

func TestBuildShopFilters(t *testing.T) {
	dist := shopDistribution()
	items := shopItems()

	organic := BuildShop(dist, items, Filter{OrganicOnly: true})
	assert.Len(t, organic, 1)
	assert.Equal(t, "p1", organic[0].ProductID)

	byProducer := BuildShop(dist, items, Filter{ProducerID: "farm2"})
	assert.Len(t, byProducer, 1)
	assert.Equal(t, "p2", byProducer[0].ProductID)

	byDate := BuildShop(dist, items, Filter{SaleDateKey: "2026-09-16"})
	assert.Len(t, byDate, 1)
	assert.Equal(t, "p1", byDate[0].ProductID)

	byQuery := BuildShop(dist, items, Filter{Query: "fromage"})
	assert.Len(t, byQuery, 1)
	assert.Equal(t, "p2", byQuery[0].ProductID)

	none := BuildShop(dist, items, Filter{CategoryID: "legumes", ProducerID: "farm2"})
	assert.Empty(t, none)
}
