package storefront

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/festa/internal/balloon"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/handler"
	"github.com/dukerupert/festa/internal/ribbon"
	"github.com/dukerupert/festa/internal/service"
)

// CatalogHandler serves the read-only storefront catalog.
type CatalogHandler struct {
	catalog service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListSections handles GET /api/sections
func (h *CatalogHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.catalog.ListSections(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]any{"sections": nonNil(sections)})
}

// GetSection handles GET /api/sections/{slug}
func (h *CatalogHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	section, err := h.catalog.GetSection(ctx, r.PathValue("slug"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	components, err := h.catalog.ListComponents(ctx, domain.ComponentFilter{
		SectionID: uuid.NullUUID{UUID: section.ID, Valid: true},
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"section":    section,
		"components": nonNil(components),
	})
}

// ListComponents handles GET /api/components?kind=&section_id=&in_stock=
func (h *CatalogHandler) ListComponents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ComponentFilter{Kind: domain.ComponentKind(q.Get("kind"))}
	if filter.Kind != "" && !filter.Kind.Valid() {
		handler.ErrorResponse(w, r, domain.NewValidationError("catalog.list", "kind", "unknown component kind"))
		return
	}

	sectionID, err := handler.ParseOptionalUUID("section_id", q.Get("section_id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	filter.SectionID = sectionID

	if v := q.Get("in_stock"); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			handler.ErrorResponse(w, r, domain.NewValidationError("catalog.list", "in_stock", "must be true or false"))
			return
		}
		filter.InStockOnly = inStock
	}

	components, err := h.catalog.ListComponents(r.Context(), filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, map[string]any{"components": nonNil(components)})
}

// GetComponent handles GET /api/components/{id}
func (h *CatalogHandler) GetComponent(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	component, err := h.catalog.GetComponent(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, component)
}

type ribbonOptions struct {
	Styles      []ribbonStyleOption `json:"styles"`
	Sizes       []ribbonSizeOption  `json:"sizes"`
	Materials   []domain.Component  `json:"materials"`
	Accessories []domain.Component  `json:"accessories"`
}

type ribbonStyleOption struct {
	Style     ribbon.Style    `json:"style"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

type ribbonSizeOption struct {
	ribbon.BowSize
	CutMultiplier decimal.Decimal `json:"cut_multiplier"`
}

// RibbonOptions handles GET /api/ribbons/options. It returns the bow and
// cut tables together with the in-stock ribbon materials and pre-made bows.
func (h *CatalogHandler) RibbonOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	materials, err := h.catalog.ListComponents(ctx, domain.ComponentFilter{Kind: domain.KindRibbonMaterial, InStockOnly: true})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	accessories, err := h.catalog.ListComponents(ctx, domain.ComponentFilter{Kind: domain.KindAccessory, InStockOnly: true})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	opts := ribbonOptions{
		Materials:   nonNil(materials),
		Accessories: nonNil(accessories),
	}
	for _, style := range ribbon.Styles {
		opts.Styles = append(opts.Styles, ribbonStyleOption{Style: style, Surcharge: ribbon.StyleSurcharges[style]})
	}
	for _, class := range capacityClasses {
		opts.Sizes = append(opts.Sizes, ribbonSizeOption{
			BowSize:       ribbon.BowSizes[class],
			CutMultiplier: ribbon.SizeMultipliers[class],
		})
	}

	handler.WriteJSON(w, http.StatusOK, opts)
}

type arrangementOption struct {
	Arrangement balloon.Arrangement `json:"arrangement"`
	Fee         decimal.Decimal     `json:"fee"`
}

// BalloonOptions handles GET /api/balloons/options
func (h *CatalogHandler) BalloonOptions(w http.ResponseWriter, r *http.Request) {
	balloons, err := h.catalog.ListComponents(r.Context(), domain.ComponentFilter{Kind: domain.KindBalloon, InStockOnly: true})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	arrangements := make([]arrangementOption, 0, len(balloon.ArrangementFees))
	for arrangement, fee := range balloon.ArrangementFees {
		arrangements = append(arrangements, arrangementOption{Arrangement: arrangement, Fee: fee})
	}
	slices.SortFunc(arrangements, func(a, b arrangementOption) int {
		return a.Fee.Cmp(b.Fee)
	})

	handler.WriteJSON(w, http.StatusOK, map[string]any{
		"balloons":     nonNil(balloons),
		"helium_fee":   balloon.HeliumFee,
		"arrangements": arrangements,
	})
}

var capacityClasses = []domain.CapacityClass{domain.CapacitySmall, domain.CapacityMedium, domain.CapacityLarge}

// nonNil makes empty lists encode as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
