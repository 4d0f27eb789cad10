package routes

import (
	"github.com/dukerupert/festa/internal/middleware"
	"github.com/dukerupert/festa/internal/router"
)

// RegisterStorefrontRoutes registers the shopper-facing JSON API. Every route
// runs with a shopper session; kits and carts are keyed by it.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	shop := r.Group(
		middleware.WithSession(deps.Cookies, deps.SessionCookie, deps.SessionTTL),
		middleware.MaxBodySize(),
	)

	// Catalog browsing
	shop.Get("/api/sections", deps.CatalogHandler.ListSections)
	shop.Get("/api/sections/{slug}", deps.CatalogHandler.GetSection)
	shop.Get("/api/components", deps.CatalogHandler.ListComponents)
	shop.Get("/api/components/{id}", deps.CatalogHandler.GetComponent)
	shop.Get("/api/ribbons/options", deps.CatalogHandler.RibbonOptions)
	shop.Get("/api/balloons/options", deps.CatalogHandler.BalloonOptions)

	// Kit builder
	shop.Get("/api/kit", deps.KitHandler.Get)
	shop.Post("/api/kit/start", deps.KitHandler.Start)
	shop.Put("/api/kit/container", deps.KitHandler.SetContainer)
	shop.Post("/api/kit/items", deps.KitHandler.AddItem)
	shop.Patch("/api/kit/items/{id}", deps.KitHandler.UpdateItem)
	shop.Delete("/api/kit/items/{id}", deps.KitHandler.RemoveItem)
	shop.Get("/api/kit/wrappers", deps.KitHandler.WrapperOptions)
	shop.Put("/api/kit/wrapper", deps.KitHandler.SetWrapper)
	shop.Put("/api/kit/filler", deps.KitHandler.SetFiller)
	shop.Put("/api/kit/ribbon", deps.KitHandler.SetRibbon)
	shop.Put("/api/kit/style", deps.KitHandler.SetStyle)
	shop.Post("/api/kit/advance", deps.KitHandler.Advance)
	shop.Post("/api/kit/back", deps.KitHandler.Back)
	shop.Post("/api/kit/finalize", deps.KitHandler.Finalize)

	// Shopping cart
	shop.Get("/api/cart", deps.CartHandler.View)
	shop.Delete("/api/cart", deps.CartHandler.Clear)
	shop.Post("/api/cart/products", deps.CartHandler.AddProduct)
	shop.Post("/api/cart/ribbons", deps.CartHandler.AddRibbonCut)
	shop.Post("/api/cart/balloons", deps.CartHandler.AddBalloons)
	shop.Patch("/api/cart/lines/{id}", deps.CartHandler.UpdateLine)
	shop.Delete("/api/cart/lines/{id}", deps.CartHandler.RemoveLine)

	// Checkout is rate limited per client to stop order spam
	shop.Post("/api/checkout", deps.CheckoutHandler.Submit, middleware.RateLimit(deps.CheckoutLimit))
}
