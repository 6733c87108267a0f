package offers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"brouette/models"
)

// maxBatchWrites caps the number of writes sent in one bulk request.
const maxBatchWrites = 400

// DraftEntry is one cell of the offer wizard: a variant on one pickup
// date, with the limits the admin typed in.
type DraftEntry struct {
	Enabled        bool `json:"enabled"`
	LimitPerMember int  `json:"limitPerMember"`
	LimitTotal     int  `json:"limitTotal"`
}

// Draft is the sparse wizard state, keyed productId:variantId:dateIndex.
// Cells the admin never touched are simply absent.
type Draft map[string]DraftEntry

// Catalogue is the product and variant snapshot the engine resolves
// draft keys against.
type Catalogue struct {
	Products map[string]models.Product
	Variants map[string]models.Variant
}

// DraftKey builds the wizard cell key.
func DraftKey(productID, variantID string, dateIndex int) string {
	return productID + ":" + variantID + ":" + strconv.Itoa(dateIndex)
}

func parseDraftKey(key string) (productID, variantID string, dateIndex int, ok bool) {
	parts := strings.Split(key, ":")
	if len(parts) != 3 {
		return "", "", 0, false
	}
	idx, err := strconv.Atoi(parts[2])
	if err != nil || idx < 0 {
		return "", "", 0, false
	}
	return parts[0], parts[1], idx, true
}

func offerItemID(distributionID, productID, variantID string, dateIndex int) string {
	return fmt.Sprintf("%s_%s_%s_%d", distributionID, productID, variantID, dateIndex)
}

// ComputeDesired resolves a draft into the complete set of offer items
// one producer should have in a distribution. Entries pointing at a
// product or variant missing from the catalogue, or at a date index
// outside the distribution, are dropped silently: stale wizard state
// must never block a save. Prices and display fields are snapshotted
// from the catalogue at save time.
func ComputeDesired(dist *models.Distribution, producerID string, draft Draft, cat Catalogue) []models.OfferItem {
	desired := make([]models.OfferItem, 0, len(draft))
	for key, entry := range draft {
		if !entry.Enabled {
			continue
		}
		productID, variantID, dateIndex, ok := parseDraftKey(key)
		if !ok || dateIndex >= len(dist.Dates) {
			continue
		}
		product, ok := cat.Products[productID]
		if !ok || product.ProducerID != producerID {
			continue
		}
		variant, ok := cat.Variants[variantID]
		if !ok || variant.ProductID != productID {
			continue
		}
		desired = append(desired, models.OfferItem{
			OfferItemID:    offerItemID(dist.DistributionID, productID, variantID, dateIndex),
			DistributionID: dist.DistributionID,
			ProducerID:     producerID,
			ProductID:      productID,
			VariantID:      variantID,
			DateIndex:      dateIndex,
			LimitPerMember: entry.LimitPerMember,
			LimitTotal:     entry.LimitTotal,
			Price:          variant.Price,
			Title:          product.Name,
			VariantLabel:   variant.Label,
			ImageURL:       product.ImageURL,
			IsOrganic:      product.IsOrganic,
			CategoryID:     product.CategoryID,
		})
	}
	sort.Slice(desired, func(i, j int) bool {
		return desired[i].OfferItemID < desired[j].OfferItemID
	})
	return desired
}

// Diff compares the stored offer items against the desired set and
// returns the minimal write plan: items to upsert (new or changed) and
// ids to delete. Unchanged items produce no write, so re-saving an
// untouched wizard is a no-op.
func Diff(existing, desired []models.OfferItem) (toUpsert []models.OfferItem, toDelete []string) {
	current := make(map[string]models.OfferItem, len(existing))
	for _, item := range existing {
		current[item.OfferItemID] = item
	}
	wanted := make(map[string]bool, len(desired))
	for _, item := range desired {
		wanted[item.OfferItemID] = true
		if old, ok := current[item.OfferItemID]; !ok || old != item {
			toUpsert = append(toUpsert, item)
		}
	}
	for _, item := range existing {
		if !wanted[item.OfferItemID] {
			toDelete = append(toDelete, item.OfferItemID)
		}
	}
	sort.Strings(toDelete)
	return toUpsert, toDelete
}

// ActiveDateKeys maps the desired set into per-variant and per-product
// date keys, driving the variant activeDates and product saleDates
// denormalisation the shop reads.
func ActiveDateKeys(dist *models.Distribution, desired []models.OfferItem, keyOf func(int) string) (variantDates, productDates map[string][]string) {
	variantSet := map[string]map[string]bool{}
	productSet := map[string]map[string]bool{}
	for _, item := range desired {
		if item.DateIndex >= len(dist.Dates) {
			continue
		}
		key := keyOf(item.DateIndex)
		if variantSet[item.VariantID] == nil {
			variantSet[item.VariantID] = map[string]bool{}
		}
		variantSet[item.VariantID][key] = true
		if productSet[item.ProductID] == nil {
			productSet[item.ProductID] = map[string]bool{}
		}
		productSet[item.ProductID][key] = true
	}
	variantDates = make(map[string][]string, len(variantSet))
	for id, set := range variantSet {
		variantDates[id] = sortedKeys(set)
	}
	productDates = make(map[string][]string, len(productSet))
	for id, set := range productSet {
		productDates[id] = sortedKeys(set)
	}
	return variantDates, productDates
}

// StripDateKeys removes the given keys from a stored date list. Keys
// contributed by other distributions stay untouched. The result is
// never nil so an emptied list is stored as [] rather than dropped.
func StripDateKeys(current, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, k := range remove {
		drop[k] = true
	}
	kept := make([]string, 0, len(current))
	for _, k := range current {
		if !drop[k] {
			kept = append(kept, k)
		}
	}
	return kept
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// chunk splits n writes into batches no larger than maxBatchWrites.
func chunk(n int) [][2]int {
	var spans [][2]int
	for start := 0; start < n; start += maxBatchWrites {
		end := start + maxBatchWrites
		if end > n {
			end = n
		}
		spans = append(spans, [2]int{start, end})
	}
	return spans
}
