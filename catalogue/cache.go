package catalogue

import (
	"time"

	"brouette/rdx"
)

// shopCacheTTL bounds how stale the cached shop listing can get when
// an invalidation is missed.
const shopCacheTTL = 60 * time.Second

// ShopCacheKey names the cached shop payload of a distribution.
func ShopCacheKey(distributionID string) string {
	return "shop:" + distributionID
}

func cachedShop(distributionID string) (string, bool) {
	if rdx.Conn == nil {
		return "", false
	}
	payload, err := rdx.RdxGet(ShopCacheKey(distributionID))
	if err != nil || payload == "" {
		return "", false
	}
	return payload, true
}

func cacheShop(distributionID, payload string) {
	if rdx.Conn == nil {
		return
	}
	// Best effort; a failed write just means the next request rebuilds.
	_ = rdx.SetWithExpiry(ShopCacheKey(distributionID), payload, shopCacheTTL)
}

// InvalidateShopCache drops the cached listing after anything that
// changes what is on sale.
func InvalidateShopCache(distributionID string) {
	if rdx.Conn == nil {
		return
	}
	_ = rdx.RdxDel(ShopCacheKey(distributionID))
}
