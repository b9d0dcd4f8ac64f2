package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/tickart/internal/domain/catalog"
)

// ListProducts returns the catalog grouped by category in declaration
// order.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		internalError(w, r, "load catalog", err)
		return
	}

	var e jx.Encoder
	e.ArrStart()
	for _, c := range categories {
		e.ObjStart()
		e.FieldStart("category")
		e.Str(c.Name)
		e.FieldStart("products")
		e.ArrStart()
		for _, p := range c.Products {
			e.ObjStart()
			e.FieldStart("id")
			e.Str(p.ID)
			e.FieldStart("name")
			e.Str(p.Name)
			e.FieldStart("price")
			e.Str(p.Price.StringFixed(2))
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	}
	e.ArrEnd()

	writeJSON(w, http.StatusOK, &e)
}

// GetProduct returns a single product by ID.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		internalError(w, r, "get product", err)
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price")
	e.Str(p.Price.StringFixed(2))
	e.FieldStart("category")
	e.Str(p.Category)
	e.ObjEnd()

	writeJSON(w, http.StatusOK, &e)
}
