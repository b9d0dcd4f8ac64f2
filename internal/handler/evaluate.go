package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/tickart/internal/domain/cart"
	"github.com/xenking/tickart/internal/domain/catalog"
	"github.com/xenking/tickart/internal/domain/discount"
)

// maxEvaluateBody bounds the request size; carts are small.
const maxEvaluateBody = 1 << 20

// EvaluateCart prices a cart snapshot against the active discount rules
// and returns per-line discounted prices plus cross-selling
// recommendations. Monetary values travel as decimal strings to keep
// exact minor-unit precision on the wire.
func (h *Handler) EvaluateCart(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEvaluateBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body")
		return
	}

	lines, err := decodeCartLines(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rules, err := h.rules.ActiveRules(r.Context())
	if err != nil {
		internalError(w, r, "load discount rules", err)
		return
	}
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		internalError(w, r, "load catalog", err)
		return
	}

	result, err := discount.Evaluate(lines, rules, catalog.NewIndex(categories))
	if err != nil {
		var (
			invalidRule *discount.InvalidRuleError
			invalidLine *cart.InvalidLineError
		)
		switch {
		case errors.As(err, &invalidRule), errors.As(err, &invalidLine):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			internalError(w, r, "evaluate cart", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, encodeResult(result))
}

func decodeCartLines(body []byte) ([]cart.Line, error) {
	var lines []cart.Line
	d := jx.DecodeBytes(body)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "lines" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			line, err := decodeLine(d)
			if err != nil {
				return err
			}
			lines = append(lines, line)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "malformed request")
	}
	return lines, nil
}

func decodeLine(d *jx.Decoder) (cart.Line, error) {
	line := cart.Line{ParentLine: cart.NoParent}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			line.ProductID, err = d.Str()
		case "variationId":
			line.VariationID, err = d.Str()
		case "subeventId":
			line.SubeventID, err = d.Str()
		case "price":
			var raw string
			if raw, err = d.Str(); err == nil {
				line.Price, err = decimal.NewFromString(raw)
			}
		case "isAddon":
			line.IsAddon, err = d.Bool()
		case "parentLine":
			line.ParentLine, err = d.Int()
		case "voucherDiscounted":
			line.VoucherDiscounted, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	return line, err
}

func encodeResult(result *discount.Result) *jx.Encoder {
	var e jx.Encoder
	e.ObjStart()

	e.FieldStart("prices")
	e.ArrStart()
	for _, p := range result.Prices {
		e.Str(p.StringFixed(2))
	}
	e.ArrEnd()

	e.FieldStart("recommendations")
	e.ArrStart()
	for _, group := range result.Recommendations {
		e.ObjStart()
		e.FieldStart("category")
		e.Str(group.Category)
		e.FieldStart("items")
		e.ArrStart()
		for _, item := range group.Items {
			encodeRecommendation(&e, item)
		}
		e.ArrEnd()
		e.ObjEnd()
	}
	e.ArrEnd()

	e.ObjEnd()
	return &e
}

func encodeRecommendation(e *jx.Encoder, item discount.Recommendation) {
	e.ObjStart()
	e.FieldStart("productId")
	e.Str(item.ProductID)
	e.FieldStart("name")
	e.Str(item.ProductName)
	e.FieldStart("price")
	e.Str(item.Price.StringFixed(2))
	e.FieldStart("discountedPrice")
	e.Str(item.DiscountedPrice.StringFixed(2))
	e.FieldStart("maxQuantity")
	e.Int(item.MaxQuantity)
	e.ObjEnd()
}
