package offers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"brouette/models"
)

func testDistribution() *models.Distribution {
	return &models.Distribution{
		DistributionID: "dist1",
		Status:         models.DistributionPlanned,
		Dates: []time.Time{
			time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 16, 18, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 30, 18, 0, 0, 0, time.UTC),
		},
	}
}

func testCatalogue() Catalogue {
	return Catalogue{
		Products: map[string]models.Product{
			"p1": {ProductID: "p1", ProducerID: "farm1", Name: "Tomates anciennes", IsOrganic: true, CategoryID: "cat-legumes"},
			"p2": {ProductID: "p2", ProducerID: "farm1", Name: "Fromage de chèvre"},
			"p9": {ProductID: "p9", ProducerID: "otherfarm", Name: "Miel"},
		},
		Variants: map[string]models.Variant{
			"v1": {VariantID: "v1", ProductID: "p1", Label: "1kg", Price: 4.50},
			"v2": {VariantID: "v2", ProductID: "p1", Label: "500g", Price: 2.50},
			"v3": {VariantID: "v3", ProductID: "p2", Label: "pièce", Price: 3.20},
		},
	}
}

func TestComputeDesiredSnapshotsCatalogue(t *testing.T) {
	draft := Draft{
		DraftKey("p1", "v1", 0): {Enabled: true, LimitPerMember: 2, LimitTotal: 30},
		DraftKey("p1", "v2", 1): {Enabled: true},
	}
	desired := ComputeDesired(testDistribution(), "farm1", draft, testCatalogue())
	assert.Len(t, desired, 2)

	first := desired[0]
	assert.Equal(t, "dist1_p1_v1_0", first.OfferItemID)
	assert.Equal(t, "Tomates anciennes", first.Title)
	assert.Equal(t, "1kg", first.VariantLabel)
	assert.Equal(t, 4.50, first.Price)
	assert.True(t, first.IsOrganic)
	assert.Equal(t, 2, first.LimitPerMember)
	assert.Equal(t, 30, first.LimitTotal)
}

func TestComputeDesiredSkipsStaleEntries(t *testing.T) {
	draft := Draft{
		DraftKey("gone", "v1", 0): {Enabled: true},  // deleted product
		DraftKey("p1", "gone", 0): {Enabled: true},  // deleted variant
		DraftKey("p1", "v3", 0):   {Enabled: true},  // variant of another product
		DraftKey("p9", "v1", 0):   {Enabled: true},  // product of another producer
		DraftKey("p1", "v1", 7):   {Enabled: true},  // date index out of range
		DraftKey("p1", "v1", 0):   {Enabled: false}, // disabled cell
		"not-a-key":               {Enabled: true},
	}
	desired := ComputeDesired(testDistribution(), "farm1", draft, testCatalogue())
	assert.Empty(t, desired)
}

func TestDiffMinimalPlan(t *testing.T) {
	dist := testDistribution()
	cat := testCatalogue()
	draft := Draft{
		DraftKey("p1", "v1", 0): {Enabled: true, LimitPerMember: 2},
		DraftKey("p1", "v2", 0): {Enabled: true},
		DraftKey("p2", "v3", 1): {Enabled: true},
	}
	desired := ComputeDesired(dist, "farm1", draft, cat)

	// First save from scratch writes everything.
	toUpsert, toDelete := Diff(nil, desired)
	assert.Len(t, toUpsert, 3)
	assert.Empty(t, toDelete)

	// Same draft again is a no-op.
	toUpsert, toDelete = Diff(desired, desired)
	assert.Empty(t, toUpsert)
	assert.Empty(t, toDelete)

	// Tweak one limit, drop one cell: one upsert, one delete.
	draft[DraftKey("p1", "v1", 0)] = DraftEntry{Enabled: true, LimitPerMember: 5}
	delete(draft, DraftKey("p2", "v3", 1))
	next := ComputeDesired(dist, "farm1", draft, cat)
	toUpsert, toDelete = Diff(desired, next)
	assert.Len(t, toUpsert, 1)
	assert.Equal(t, 5, toUpsert[0].LimitPerMember)
	assert.Equal(t, []string{"dist1_p2_v3_1"}, toDelete)
}

func TestActiveDateKeys(t *testing.T) {
	dist := testDistribution()
	draft := Draft{
		DraftKey("p1", "v1", 0): {Enabled: true},
		DraftKey("p1", "v1", 2): {Enabled: true},
		DraftKey("p1", "v2", 1): {Enabled: true},
	}
	desired := ComputeDesired(dist, "farm1", draft, testCatalogue())

	keyOf := func(i int) string { return dist.Dates[i].Format("2006-01-02") }
	variantDates, productDates := ActiveDateKeys(dist, desired, keyOf)

	assert.Equal(t, []string{"2026-09-02", "2026-09-30"}, variantDates["v1"])
	assert.Equal(t, []string{"2026-09-16"}, variantDates["v2"])
	// Product dates are the union of its variants.
	assert.Equal(t, []string{"2026-09-02", "2026-09-16", "2026-09-30"}, productDates["p1"])
}

func TestChunkRespectsBatchCap(t *testing.T) {
	assert.Empty(t, chunk(0))
	assert.Equal(t, [][2]int{{0, 399}}, chunk(399))
	assert.Equal(t, [][2]int{{0, 400}}, chunk(400))
	assert.Equal(t, [][2]int{{0, 400}, {400, 401}}, chunk(401))
	assert.Equal(t, [][2]int{{0, 400}, {400, 800}, {800, 1000}}, chunk(1000))
}

func TestStripDateKeysKeepsOtherDistributions(t *testing.T) {
	// A variant can carry date keys from several distributions;
	// deselecting its producer from one must not touch the others.
	kept := StripDateKeys(
		[]string{"2026-09-02", "2026-09-16", "2026-10-07"},
		[]string{"2026-09-02", "2026-09-16", "2026-09-30"},
	)
	assert.Equal(t, []string{"2026-10-07"}, kept)
}

func TestStripDateKeysEmptiesToEmptySlice(t *testing.T) {
	kept := StripDateKeys([]string{"2026-09-02"}, []string{"2026-09-02"})
	assert.NotNil(t, kept)
	assert.Empty(t, kept)

	assert.Empty(t, StripDateKeys(nil, []string{"2026-09-02"}))
}

func TestStripDateKeysNothingToRemove(t *testing.T) {
	current := []string{"2026-09-02", "2026-09-16"}
	assert.Equal(t, current, StripDateKeys(current, []string{"2026-10-07"}))
}
