//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func regularTickets(n int) []cartLine {
	lines := make([]cartLine, n)
	for i := range lines {
		lines[i] = cartLine{ProductID: "regular", Price: "42.00"}
	}
	return lines
}

func TestEvaluate_RecommendsReducedTicket(t *testing.T) {
	resp := doPost(t, "/api/cart/evaluate", evaluateRequest{Lines: regularTickets(2)})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	result := decodeBody[evaluateResponse](t, resp)

	if len(result.Prices) != 2 || result.Prices[0] != "42.00" {
		t.Fatalf("unexpected prices: %v", result.Prices)
	}
	if len(result.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation group, got %d", len(result.Recommendations))
	}
	item := result.Recommendations[0].Items[0]
	if item.ProductID != "reduced" || item.DiscountedPrice != "11.50" || item.MaxQuantity != 1 {
		t.Fatalf("unexpected recommendation: %+v", item)
	}
}

func TestEvaluate_AppliesDiscountInCart(t *testing.T) {
	lines := append(regularTickets(2), cartLine{ProductID: "reduced", Price: "23.00"})
	resp := doPost(t, "/api/cart/evaluate", evaluateRequest{Lines: lines})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	result := decodeBody[evaluateResponse](t, resp)

	if result.Prices[2] != "11.50" {
		t.Fatalf("expected discounted reduced ticket, got %v", result.Prices)
	}
	if len(result.Recommendations) != 0 {
		t.Fatalf("expected no recommendations, got %+v", result.Recommendations)
	}
}

func TestEvaluate_EmptyCart(t *testing.T) {
	resp := doPost(t, "/api/cart/evaluate", evaluateRequest{})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	result := decodeBody[evaluateResponse](t, resp)
	if len(result.Prices) != 0 || len(result.Recommendations) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestEvaluate_MissingProductRef(t *testing.T) {
	resp := doPost(t, "/api/cart/evaluate", evaluateRequest{
		Lines: []cartLine{{Price: "42.00"}},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestListProducts_SeededCatalog(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	categories := decodeBody[[]categoryResponse](t, resp)
	if len(categories) == 0 || categories[0].Category != "Tickets" {
		t.Fatalf("unexpected catalog: %+v", categories)
	}
}

func TestGetProduct_SeededCatalog(t *testing.T) {
	resp := doGet(t, "/api/products/reduced")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	product := decodeBody[productResponse](t, resp)
	if product.ID != "reduced" || product.Category != "Tickets" || product.Price != "23.00" {
		t.Fatalf("unexpected product: %+v", product)
	}
}

func TestGetProduct_UnknownID(t *testing.T) {
	resp := doGet(t, "/api/products/no-such-product")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHealth_Ready(t *testing.T) {
	resp := doGet(t, "/readyz")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	health := decodeBody[healthResponse](t, resp)
	if health.Status != "ok" {
		t.Fatalf("expected ok status, got %+v", health)
	}
}
