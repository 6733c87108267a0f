package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"brouette/admin"
	"brouette/auth"
	"brouette/cart"
	"brouette/categories"
	"brouette/catalogue"
	"brouette/distributions"
	"brouette/documents"
	"brouette/invites"
	"brouette/messages"
	"brouette/metrics"
	"brouette/middleware"
	"brouette/offers"
	"brouette/orders"
	"brouette/producers"
	"brouette/products"
	"brouette/profile"
	"brouette/ratelim"
	"brouette/settings"
)

// RoutesWrapper registers every API route.
func RoutesWrapper(router *httprouter.Router, rl *ratelim.RateLimiter, hub *cart.Hub) {
	AddAuthRoutes(router, rl)
	AddShopRoutes(router, rl)
	AddCartRoutes(router, rl, hub)
	AddOrderRoutes(router, rl)
	AddDistributionRoutes(router, rl)
	AddCatalogRoutes(router, rl)
	AddAdminRoutes(router, rl)
	AddCommunityRoutes(router, rl)
	AddStaticRoutes(router)
	AddUtilityRoutes(router)
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/signup", rl.Limit(auth.Signup))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
	router.GET("/api/auth/invite/:token", rl.Limit(invites.CheckInvite))

	router.GET("/api/profile", middleware.Authenticate(profile.GetProfile))
	router.PUT("/api/profile", middleware.Authenticate(profile.UpdateProfile))
	router.PUT("/api/profile/password", middleware.Authenticate(profile.ChangePassword))
}

func AddShopRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/shop", middleware.OptionalAuth(catalogue.GetShop))
	router.GET("/api/shop/products/:productId", middleware.OptionalAuth(catalogue.GetShopProduct))
	router.GET("/api/shop/distribution", distributions.GetCurrentDistribution)
	router.GET("/api/shop/next", distributions.GetNextDistribution)
}

func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, hub *cart.Hub) {
	router.GET("/api/cart", middleware.OptionalAuth(cart.GetCart))
	router.POST("/api/cart", middleware.OptionalAuth(cart.AddToCart))
	router.PUT("/api/cart", middleware.OptionalAuth(cart.UpdateCartItem))
	router.DELETE("/api/cart/item", middleware.OptionalAuth(cart.RemoveCartItem))
	router.DELETE("/api/cart", middleware.OptionalAuth(cart.ClearCart))
	router.POST("/api/cart/rebind", middleware.Authenticate(cart.RebindCart))
	router.GET("/ws/cart", hub.Subscribe)
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/orders/checkout", rl.Limit(middleware.Authenticate(orders.Checkout)))
	router.GET("/api/orders", middleware.Authenticate(orders.GetMyOrders))
	router.GET("/api/orders/:orderId", middleware.Authenticate(orders.GetOrder))
	router.GET("/api/orders/:orderId/receipt", middleware.Authenticate(orders.PrintReceipt))
}

func AddDistributionRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/distributions", middleware.RequireAdmin(distributions.GetDistributions))
	router.POST("/api/distributions", middleware.RequireAdmin(distributions.CreateDistribution))
	router.GET("/api/distributions/:distributionId", middleware.RequireAdmin(distributions.GetDistribution))
	router.PUT("/api/distributions/:distributionId", middleware.RequireAdmin(distributions.UpdateDistribution))
	router.DELETE("/api/distributions/:distributionId", middleware.RequireAdmin(distributions.DeleteDistribution))
	router.POST("/api/distributions/:distributionId/open", middleware.RequireAdmin(distributions.OpenDistribution))
	router.POST("/api/distributions/:distributionId/close", middleware.RequireAdmin(distributions.CloseDistribution))

	router.GET("/api/distributions/:distributionId/producers", middleware.RequireAdmin(offers.GetDistributionProducers))
	router.PUT("/api/distributions/:distributionId/producers", middleware.RequireAdmin(offers.SaveDistributionProducers))
	router.GET("/api/distributions/:distributionId/offers", middleware.RequireAdmin(offers.GetOfferItems))
	router.GET("/api/distributions/:distributionId/producers/:producerId/offers", middleware.RequireAdmin(offers.GetProducerOffers))
	router.PUT("/api/distributions/:distributionId/producers/:producerId/offers", middleware.RequireAdmin(offers.SaveProducerOffersHandler))

	router.GET("/api/distributions/:distributionId/orders", middleware.RequireAdmin(orders.GetDistributionOrders))
	router.GET("/api/distributions/:distributionId/summary", middleware.RequireAdmin(orders.GetDistributionSummary))
}

func AddCatalogRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/producers", middleware.OptionalAuth(producers.GetProducers))
	router.GET("/api/producers/:producerId", middleware.OptionalAuth(producers.GetProducer))
	router.POST("/api/producers", middleware.RequireAdmin(producers.CreateProducer))
	router.PUT("/api/producers/:producerId", middleware.RequireAdmin(producers.UpdateProducer))
	router.DELETE("/api/producers/:producerId", middleware.RequireAdmin(producers.DeleteProducer))

	router.GET("/api/products", middleware.OptionalAuth(products.GetProducts))
	router.GET("/api/products/:productId", middleware.OptionalAuth(products.GetProduct))
	router.POST("/api/products", middleware.RequireAdmin(products.CreateProduct))
	router.PUT("/api/products/:productId", middleware.RequireAdmin(products.UpdateProduct))
	router.DELETE("/api/products/:productId", middleware.RequireAdmin(products.DeleteProduct))
	router.POST("/api/products/:productId/image", middleware.RequireAdmin(products.UploadProductImage))
	router.POST("/api/products/:productId/variants", middleware.RequireAdmin(products.CreateVariant))
	router.PUT("/api/products/:productId/variants/:variantId", middleware.RequireAdmin(products.UpdateVariant))
	router.DELETE("/api/products/:productId/variants/:variantId", middleware.RequireAdmin(products.DeleteVariant))

	router.GET("/api/categories", middleware.OptionalAuth(categories.GetCategories))
	router.POST("/api/categories", middleware.RequireAdmin(categories.CreateCategory))
	router.PUT("/api/categories/:categoryId", middleware.RequireAdmin(categories.UpdateCategory))
	router.DELETE("/api/categories/:categoryId", middleware.RequireAdmin(categories.DeleteCategory))
}

func AddAdminRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/admin/dashboard", middleware.RequireAdmin(admin.Dashboard))
	router.GET("/api/admin/members", middleware.RequireAdmin(admin.GetMembers))
	router.PUT("/api/admin/members/:memberId", middleware.RequireAdmin(admin.UpdateMember))
	router.DELETE("/api/admin/members/:memberId", middleware.RequireAdmin(admin.RemoveMember))

	router.GET("/api/admin/invites", middleware.RequireAdmin(invites.ListInvites))
	router.POST("/api/admin/invites", middleware.RequireAdmin(invites.CreateInvite))
	router.DELETE("/api/admin/invites/:inviteId", middleware.RequireAdmin(invites.RevokeInvite))

	router.GET("/api/admin/settings", middleware.RequireAdmin(settings.GetSettings))
	router.PUT("/api/admin/settings", middleware.RequireAdmin(settings.UpdateSettings))
}

func AddCommunityRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/messages", middleware.Authenticate(messages.GetMessages))
	router.POST("/api/messages", middleware.RequireAdmin(messages.CreateMessage))
	router.DELETE("/api/messages/:messageId", middleware.RequireAdmin(messages.DeleteMessage))

	router.GET("/api/documents", middleware.Authenticate(documents.GetDocuments))
	router.POST("/api/documents", middleware.RequireAdmin(documents.CreateDocument))
	router.DELETE("/api/documents/:documentId", middleware.RequireAdmin(documents.DeleteDocument))
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
	router.ServeFiles("/static/docs/*filepath", http.Dir("static/docs"))
}

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/metrics", metrics.Handler())
}
