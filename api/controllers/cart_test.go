package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	cartsvc "github.com/mrbebidas/catalog-backend/internal/cart"
)

type stubCartService struct {
	lastToken   string
	lastProduct uuid.UUID
	lastDelta   int
	dto         *cartsvc.CartDTO
	err         error
}

func (s *stubCartService) Get(ctx context.Context, token string) (*cartsvc.CartDTO, error) {
	s.lastToken = token
	return s.result(token)
}

func (s *stubCartService) Add(ctx context.Context, token string, productID uuid.UUID) (*cartsvc.CartDTO, error) {
	s.lastToken = token
	s.lastProduct = productID
	return s.result(token)
}

func (s *stubCartService) AdjustQuantity(ctx context.Context, token string, productID uuid.UUID, delta int) (*cartsvc.CartDTO, error) {
	s.lastToken = token
	s.lastProduct = productID
	s.lastDelta = delta
	return s.result(token)
}

func (s *stubCartService) Remove(ctx context.Context, token string, productID uuid.UUID) (*cartsvc.CartDTO, error) {
	s.lastToken = token
	s.lastProduct = productID
	return s.result(token)
}

func (s *stubCartService) Clear(ctx context.Context, token string) (*cartsvc.CartDTO, error) {
	s.lastToken = token
	return s.result(token)
}

func (s *stubCartService) Snapshot(ctx context.Context, token string) (*cartsvc.Cart, error) {
	return nil, nil
}

func (s *stubCartService) result(token string) (*cartsvc.CartDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.dto != nil {
		return s.dto, nil
	}
	return cartsvc.EmptyDTO(token), nil
}

func TestCartGetMintsToken(t *testing.T) {
	stub := &stubCartService{}
	handler := CartGet(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/public/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	minted := rec.Header().Get(CartTokenHeader)
	if minted == "" {
		t.Fatal("expected a minted cart token in the response header")
	}
	if stub.lastToken != minted {
		t.Fatalf("service saw token %q, header carries %q", stub.lastToken, minted)
	}
}

func TestCartGetReusesToken(t *testing.T) {
	stub := &stubCartService{}
	handler := CartGet(stub, nil)

	token := cartsvc.NewToken()
	req := httptest.NewRequest(http.MethodGet, "/api/public/cart", nil)
	req.Header.Set(CartTokenHeader, token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(CartTokenHeader); got != token {
		t.Fatalf("expected token echoed back, got %q", got)
	}
	if stub.lastToken != token {
		t.Fatalf("service saw token %q, want %q", stub.lastToken, token)
	}
}

func TestCartAddItem(t *testing.T) {
	stub := &stubCartService{}
	handler := CartAddItem(stub, nil)

	productID := uuid.New()
	body := strings.NewReader(`{"product_id":"` + productID.String() + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/public/cart/items", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.lastProduct != productID {
		t.Fatalf("service saw product %s, want %s", stub.lastProduct, productID)
	}

	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCartAddItemRejectsMissingProduct(t *testing.T) {
	stub := &stubCartService{}
	handler := CartAddItem(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/public/cart/items", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartAdjustItemParsesRouteAndDelta(t *testing.T) {
	stub := &stubCartService{}
	productID := uuid.New()

	router := chi.NewRouter()
	router.Patch("/cart/items/{productId}", CartAdjustItem(stub, nil))

	req := httptest.NewRequest(http.MethodPatch, "/cart/items/"+productID.String(), strings.NewReader(`{"delta":-1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.lastProduct != productID || stub.lastDelta != -1 {
		t.Fatalf("service saw product %s delta %d", stub.lastProduct, stub.lastDelta)
	}
}

func TestCartAdjustItemRejectsBadID(t *testing.T) {
	stub := &stubCartService{}

	router := chi.NewRouter()
	router.Patch("/cart/items/{productId}", CartAdjustItem(stub, nil))

	req := httptest.NewRequest(http.MethodPatch, "/cart/items/not-a-uuid", strings.NewReader(`{"delta":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
