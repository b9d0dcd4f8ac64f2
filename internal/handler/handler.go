// Package handler implements the JSON API surface over the discount engine.
package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/tickart/internal/domain/catalog"
	"github.com/xenking/tickart/internal/domain/discount"
)

// Handler serves the pricing API, delegating business logic to the
// discount engine and the injected repositories.
type Handler struct {
	catalog catalog.Repository
	rules   discount.Repository
}

// New constructs a Handler with the required domain dependencies.
func New(catalogRepo catalog.Repository, ruleRepo discount.Repository) *Handler {
	return &Handler{catalog: catalogRepo, rules: ruleRepo}
}

// Register mounts all API routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("POST /api/cart/evaluate", h.EvaluateCart)
}

func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	writeJSON(w, status, &e)
}

func internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zctx.From(r.Context()).Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
