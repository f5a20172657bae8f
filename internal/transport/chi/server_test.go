package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/shopsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/shopsearch/internal/usecase/search"
)

// --- Mocks ---

type mockCatalog struct {
	products []product.Product
	err      error
}

func (m *mockCatalog) Search(_ context.Context, q domain.CatalogQuery) ([]product.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	if q.Pass == searchuc.PassListing {
		return m.products, nil
	}
	terms := strings.Fields(strings.ToLower(q.Search))
	if len(terms) == 0 {
		return m.products, nil
	}
	var out []product.Product
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Name), terms[0]) {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockChecker struct{ err error }

func (m mockChecker) HealthCheck(context.Context) error { return m.err }

func catalogFixture() []product.Product {
	return []product.Product{
		{
			ID:          10,
			Name:        "Folding Wheelchair",
			Permalink:   "https://shop.example/p/folding-wheelchair",
			Description: "<p>Lightweight steel frame.</p>",
			StockStatus: product.StockInStock,
			Price:       "12000",
			Images:      []product.Image{{Src: "https://cdn.example/w.jpg"}},
			Categories:  []product.Term{{Name: "Wheelchairs"}},
		},
		{
			ID:          11,
			Name:        "Shower Chair",
			Permalink:   "https://shop.example/p/shower-chair",
			StockStatus: product.StockOutOfStock,
			Categories:  []product.Term{{Name: "Bathroom"}},
		},
	}
}

func newTestRouter(cat *mockCatalog, catalogHealth error) http.Handler {
	svc := searchuc.New(cat, nil, nil, result.NewTemplateComposer(nil), searchuc.Limits{})
	health := healthuc.New(mockChecker{err: catalogHealth}, nil, nil)
	r := chi.NewRouter()
	NewServer(svc, health, nil).Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

// --- Search ---

func TestSearch_OK(t *testing.T) {
	h := newTestRouter(&mockCatalog{products: catalogFixture()}, nil)

	rr := do(t, h, http.MethodGet, "/api/search?q=folding+wheelchair&limit=5", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200; body %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var resp result.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Query != "folding wheelchair" {
		t.Errorf("query: got %q", resp.Query)
	}
	if resp.Count == 0 || len(resp.Products) != resp.Count {
		t.Fatalf("count: got %d with %d products", resp.Count, len(resp.Products))
	}
	top := resp.Products[0]
	if top.ID != 10 {
		t.Errorf("top product: got %d, want 10", top.ID)
	}
	if top.RelevanceScore == nil || *top.RelevanceScore <= 0 {
		t.Errorf("relevance score missing on search result: %+v", top.RelevanceScore)
	}
	if resp.Message == "" {
		t.Error("message is empty")
	}
}

func TestSearch_BlankQuery_400(t *testing.T) {
	h := newTestRouter(&mockCatalog{products: catalogFixture()}, nil)

	rr := do(t, h, http.MethodGet, "/api/search?q=%20%20", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	if got := decodeError(t, rr); got.Code != CodeValidationFailed {
		t.Errorf("code: got %s, want %s", got.Code, CodeValidationFailed)
	}
}

func TestSearch_BadLimit_400(t *testing.T) {
	h := newTestRouter(&mockCatalog{products: catalogFixture()}, nil)

	rr := do(t, h, http.MethodGet, "/api/search?q=chair&limit=abc", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	if got := decodeError(t, rr); got.Code != CodeBadRequest {
		t.Errorf("code: got %s, want %s", got.Code, CodeBadRequest)
	}
}

func TestSearch_CatalogDown_502(t *testing.T) {
	h := newTestRouter(&mockCatalog{err: domain.NewUpstreamError(500, "db gone")}, nil)

	rr := do(t, h, http.MethodGet, "/api/search?q=chair", "")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want 502", rr.Code)
	}
	got := decodeError(t, rr)
	if got.Code != CodeSearchFailed {
		t.Errorf("code: got %s, want %s", got.Code, CodeSearchFailed)
	}
	if strings.Contains(got.Message, "db gone") {
		t.Errorf("upstream detail leaked: %q", got.Message)
	}
}

// --- Chat ---

func TestChat_OK(t *testing.T) {
	h := newTestRouter(&mockCatalog{products: catalogFixture()}, nil)

	rr := do(t, h, http.MethodPost, "/api/chat", `{"message":"Do you have a shower chair?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp result.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Query != "a shower chair" {
		t.Errorf("query: got %q, want %q", resp.Query, "a shower chair")
	}
	if len(resp.Products) == 0 {
		t.Fatal("expected products")
	}
	if resp.Products[0].RelevanceScore != nil {
		t.Error("chat results must not carry relevance scores")
	}
}

func TestChat_CatalogDown_Degrades(t *testing.T) {
	h := newTestRouter(&mockCatalog{err: errors.New("dial tcp: refused")}, nil)

	rr := do(t, h, http.MethodPost, "/api/chat", `{"message":"wheelchair"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp result.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != result.UnavailableMessage {
		t.Errorf("message: got %q", resp.Message)
	}
	if resp.Products == nil || len(resp.Products) != 0 {
		t.Errorf("products: got %v, want empty array", resp.Products)
	}
}

func TestChat_InvalidBody_400(t *testing.T) {
	h := newTestRouter(&mockCatalog{}, nil)

	rr := do(t, h, http.MethodPost, "/api/chat", `{"message":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	if got := decodeError(t, rr); got.Code != CodeBadRequest {
		t.Errorf("code: got %s", got.Code)
	}
}

// --- Legacy products ---

func TestProducts_OK(t *testing.T) {
	h := newTestRouter(&mockCatalog{products: catalogFixture()}, nil)

	rr := do(t, h, http.MethodGet, "/api/products?q=wheelchair", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var items []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected items")
	}
	for _, key := range []string{"name", "permalink", "description"} {
		if _, ok := items[0][key]; !ok {
			t.Errorf("missing key %q in %v", key, items[0])
		}
	}
	if len(items[0]) != 3 {
		t.Errorf("legacy record has %d keys, want 3", len(items[0]))
	}
}

func TestProducts_BlankQueryListing(t *testing.T) {
	h := newTestRouter(&mockCatalog{products: catalogFixture()}, nil)

	rr := do(t, h, http.MethodGet, "/api/products", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var items []result.LegacyItem
	if err := json.NewDecoder(rr.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("items: got %d, want 2", len(items))
	}
}

func TestProducts_Failure_500(t *testing.T) {
	h := newTestRouter(&mockCatalog{err: domain.ErrUpstreamUnavailable}, nil)

	rr := do(t, h, http.MethodGet, "/api/products?q=chair", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != legacyErrorMessage {
		t.Errorf("error: got %q, want %q", body["error"], legacyErrorMessage)
	}
}

// --- Health and routing ---

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		catalogErr error
		wantCode   int
		wantStatus string
	}{
		{"healthy", nil, http.StatusOK, "ok"},
		{"catalog down", errors.New("timeout"), http.StatusServiceUnavailable, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(&mockCatalog{}, tt.catalogErr)

			rr := do(t, h, http.MethodGet, "/health", "")
			if rr.Code != tt.wantCode {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("status field: got %q, want %q", resp.Status, tt.wantStatus)
			}
			if _, ok := resp.Checks[healthuc.ComponentCatalog]; !ok {
				t.Error("catalog check missing")
			}
		})
	}
}

func TestNotFound_JSON(t *testing.T) {
	h := newTestRouter(&mockCatalog{}, nil)

	rr := do(t, h, http.MethodGet, "/api/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
	if got := decodeError(t, rr); got.Message != "not found" {
		t.Errorf("message: got %q", got.Message)
	}
}

func TestSafeDomainMessage(t *testing.T) {
	wrapped := errors.Join(domain.ErrSearchFailed, errors.New("secret upstream detail"))
	if got := safeDomainMessage(wrapped); got != domain.ErrSearchFailed.Error() {
		t.Errorf("got %q", got)
	}
	if got := safeDomainMessage(errors.New("boom")); got != "internal error" {
		t.Errorf("got %q", got)
	}
}
