package catalogue

import (
	"sort"
	"strings"

	"brouette/distributions"
	"brouette/models"
)

// ShopOffer is one orderable line of the shop: a variant on a pickup
// date, with its snapshotted price and display limits.
type ShopOffer struct {
	OfferItemID    string  `json:"offerItemId"`
	VariantID      string  `json:"variantId"`
	VariantLabel   string  `json:"variantLabel"`
	Price          float64 `json:"price"`
	DateIndex      int     `json:"dateIndex"`
	SaleDateKey    string  `json:"saleDateKey"`
	SaleDateLabel  string  `json:"saleDateLabel"`
	LimitPerMember int     `json:"limitPerMember,omitempty"`
	LimitTotal     int     `json:"limitTotal,omitempty"`
}

// ShopProduct groups the offers of one product for display.
type ShopProduct struct {
	ProductID  string      `json:"productId"`
	ProducerID string      `json:"producerId"`
	Title      string      `json:"title"`
	ImageURL   string      `json:"imageUrl,omitempty"`
	IsOrganic  bool        `json:"isOrganic"`
	CategoryID string      `json:"categoryId,omitempty"`
	PriceMin   float64     `json:"priceMin"`
	PriceMax   float64     `json:"priceMax"`
	Dates      []string    `json:"dates"`
	HasLimits  bool        `json:"hasLimits"`
	Offers     []ShopOffer `json:"offers"`
}

// Filter narrows the shop listing. Zero values match everything.
type Filter struct {
	CategoryID  string
	ProducerID  string
	SaleDateKey string
	OrganicOnly bool
	Query       string
}

func (f Filter) matches(p *ShopProduct) bool {
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.ProducerID != "" && p.ProducerID != f.ProducerID {
		return false
	}
	if f.OrganicOnly && !p.IsOrganic {
		return false
	}
	if f.SaleDateKey != "" {
		found := false
		for _, d := range p.Dates {
			if d == f.SaleDateKey {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Query)) {
		return false
	}
	return true
}

// BuildShop turns the offer items of an open distribution into the
// product listing the shop renders, then applies the filter. Offers
// whose date index no longer exists on the distribution are dropped.
func BuildShop(dist *models.Distribution, items []models.OfferItem, filter Filter) []ShopProduct {
	byProduct := map[string]*ShopProduct{}
	for _, item := range items {
		if item.DateIndex >= len(dist.Dates) {
			continue
		}
		p, ok := byProduct[item.ProductID]
		if !ok {
			p = &ShopProduct{
				ProductID:  item.ProductID,
				ProducerID: item.ProducerID,
				Title:      item.Title,
				ImageURL:   item.ImageURL,
				IsOrganic:  item.IsOrganic,
				CategoryID: item.CategoryID,
				PriceMin:   item.Price,
				PriceMax:   item.Price,
			}
			byProduct[item.ProductID] = p
		}
		if item.Price < p.PriceMin {
			p.PriceMin = item.Price
		}
		if item.Price > p.PriceMax {
			p.PriceMax = item.Price
		}
		if item.LimitPerMember > 0 || item.LimitTotal > 0 {
			p.HasLimits = true
		}
		date := dist.Dates[item.DateIndex]
		p.Offers = append(p.Offers, ShopOffer{
			OfferItemID:    item.OfferItemID,
			VariantID:      item.VariantID,
			VariantLabel:   item.VariantLabel,
			Price:          item.Price,
			DateIndex:      item.DateIndex,
			SaleDateKey:    distributions.DateKey(date),
			SaleDateLabel:  distributions.DateLabel(date),
			LimitPerMember: item.LimitPerMember,
			LimitTotal:     item.LimitTotal,
		})
	}

	out := make([]ShopProduct, 0, len(byProduct))
	for _, p := range byProduct {
		seen := map[string]bool{}
		for _, o := range p.Offers {
			seen[o.SaleDateKey] = true
		}
		for key := range seen {
			p.Dates = append(p.Dates, key)
		}
		sort.Strings(p.Dates)
		sort.Slice(p.Offers, func(i, j int) bool {
			return p.Offers[i].OfferItemID < p.Offers[j].OfferItemID
		})
		if filter.matches(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}
