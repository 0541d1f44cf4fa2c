package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apex-athletics/storefront/internal/auth"
	"github.com/apex-athletics/storefront/internal/catalog"
	"github.com/apex-athletics/storefront/internal/orders"
	"github.com/apex-athletics/storefront/internal/site"
	"github.com/apex-athletics/storefront/internal/storage"
	"github.com/apex-athletics/storefront/pkg/models"
	"github.com/sirupsen/logrus"
)

const (
	testEmail    = "admin@example.com"
	testPassword = "secret"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	store := storage.New(t.TempDir(), logger)
	if err := store.Seed(catalog.Collection, []models.Product{}); err != nil {
		t.Fatalf("Failed to seed products: %v", err)
	}
	if err := store.Seed(site.Collection, site.DefaultConfig()); err != nil {
		t.Fatalf("Failed to seed site config: %v", err)
	}
	if err := store.Seed(orders.Collection, []models.Order{}); err != nil {
		t.Fatalf("Failed to seed orders: %v", err)
	}

	authority := auth.NewAuthority(testEmail, testPassword, logger)
	catalogService := catalog.NewService(store, logger)
	siteService := site.NewService(store, logger)
	orderService := orders.NewService(store, catalogService, logger)
	handler := NewHandler(authority, catalogService, siteService, orderService, logger)

	server := httptest.NewServer(NewRouter(handler, logger))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return resp, buf.Bytes()
}

func login(t *testing.T, baseURL string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, baseURL+"/api/auth/login", "", map[string]string{
		"email":    testEmail,
		"password": testPassword,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Login returned %d: %s", resp.StatusCode, body)
	}
	var parsed struct {
		Token   string         `json:"token"`
		Session models.Session `json:"session"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("Failed to parse login response: %v", err)
	}
	if parsed.Token == "" {
		t.Fatal("Login response missing token")
	}
	if parsed.Session.Email != testEmail {
		t.Fatalf("Login session has wrong identity: %q", parsed.Session.Email)
	}
	return parsed.Token
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", map[string]string{
		"email":    testEmail,
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	server := newTestServer(t)

	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/api/products", map[string]any{"name": "X", "category": "Y", "price": 1}},
		{http.MethodPut, "/api/products/p1", map[string]any{"price": 2}},
		{http.MethodDelete, "/api/products/p1", nil},
		{http.MethodPut, "/api/site", map[string]any{"brand": "Z"}},
		{http.MethodGet, "/api/orders", nil},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp, body := doJSON(t, tc.method, server.URL+tc.path, "", tc.body)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("Expected 401 without token, got %d: %s", resp.StatusCode, body)
			}
			var parsed map[string]string
			if err := json.Unmarshal(body, &parsed); err != nil || parsed["message"] == "" {
				t.Errorf("401 body missing message: %s", body)
			}

			resp, _ = doJSON(t, tc.method, server.URL+tc.path, "bogus-token", tc.body)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("Expected 401 with bogus token, got %d", resp.StatusCode)
			}
		})
	}
}

func TestProductLifecycle(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server.URL)

	// create
	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/products", token, map[string]any{
		"name":     "Bike",
		"category": "Cycling",
		"price":    100,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create returned %d: %s", resp.StatusCode, body)
	}
	var created models.Product
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("Failed to parse created product: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Created product has no generated id")
	}
	if created.Currency != "CNY" {
		t.Errorf("Expected default currency CNY, got %q", created.Currency)
	}

	// list includes it, unauthenticated
	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/products", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("List returned %d", resp.StatusCode)
	}
	var list struct {
		Items []models.Product `json:"items"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("Failed to parse product list: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ID != created.ID {
		t.Fatalf("List does not include created product: %s", body)
	}

	// update
	resp, body = doJSON(t, http.MethodPut, server.URL+"/api/products/"+created.ID, token, map[string]any{
		"price": 88,
		"badge": "Sale",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Update returned %d: %s", resp.StatusCode, body)
	}
	var updated models.Product
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("Failed to parse updated product: %v", err)
	}
	if updated.Price != 88 || updated.Badge != "Sale" || updated.Name != "Bike" {
		t.Errorf("Update merged incorrectly: %+v", updated)
	}

	// delete returns the removed record
	resp, body = doJSON(t, http.MethodDelete, server.URL+"/api/products/"+created.ID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Delete returned %d: %s", resp.StatusCode, body)
	}
	var removed models.Product
	if err := json.Unmarshal(body, &removed); err != nil {
		t.Fatalf("Failed to parse removed product: %v", err)
	}
	if removed.ID != created.ID {
		t.Errorf("Delete returned wrong record: %+v", removed)
	}

	// gone
	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/products/"+created.ID, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestCreateDuplicateProductConflicts(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server.URL)

	payload := map[string]any{"id": "p1", "name": "Bike", "category": "Cycling", "price": 100}
	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/products", token, payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("First create returned %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/products", token, payload)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate id, got %d", resp.StatusCode)
	}
}

func TestCreateProductValidation(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server.URL)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/products", token, map[string]any{
		"category": "Cycling",
		"price":    100,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing name, got %d", resp.StatusCode)
	}
}

func TestCheckoutScenario(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server.URL)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/products", token, map[string]any{
		"id": "p1", "name": "Bike", "category": "Cycling", "price": 50,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create returned %d", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/checkout", "", map[string]any{
		"items":    []map[string]any{{"productId": "p1", "quantity": 2}},
		"customer": map[string]string{"name": "Wei"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Checkout returned %d: %s", resp.StatusCode, body)
	}
	var parsed struct {
		Message string       `json:"message"`
		Order   models.Order `json:"order"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("Failed to parse checkout response: %v", err)
	}
	if parsed.Order.Total != 100 {
		t.Errorf("Expected total 100, got %v", parsed.Order.Total)
	}
	if parsed.Order.Payment.Status != "pending" {
		t.Errorf("Expected pending payment, got %q", parsed.Order.Payment.Status)
	}
	if parsed.Message == "" {
		t.Error("Checkout response missing message")
	}

	// admin sees the order
	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/orders", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("List orders returned %d", resp.StatusCode)
	}
	var orderList struct {
		Items []models.Order `json:"items"`
	}
	if err := json.Unmarshal(body, &orderList); err != nil {
		t.Fatalf("Failed to parse order list: %v", err)
	}
	if len(orderList.Items) != 1 || orderList.Items[0].ID != parsed.Order.ID {
		t.Errorf("Order list does not include the checkout: %s", body)
	}
}

func TestCheckoutUnknownProductIs400(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server.URL)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/checkout", "", map[string]any{
		"items": []map[string]any{{"productId": "ghost", "quantity": 1}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown product, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/orders", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("List orders returned %d", resp.StatusCode)
	}
	var orderList struct {
		Items []models.Order `json:"items"`
	}
	if err := json.Unmarshal(body, &orderList); err != nil {
		t.Fatalf("Failed to parse order list: %v", err)
	}
	if len(orderList.Items) != 0 {
		t.Errorf("Failed checkout persisted an order: %s", body)
	}
}

func TestSiteMergeScenario(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server.URL)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/site", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Get site returned %d", resp.StatusCode)
	}
	var before models.SiteConfig
	if err := json.Unmarshal(body, &before); err != nil {
		t.Fatalf("Failed to parse site config: %v", err)
	}

	resp, body = doJSON(t, http.MethodPut, server.URL+"/api/site", token, map[string]any{
		"hero": map[string]string{"title": "New"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Update site returned %d: %s", resp.StatusCode, body)
	}
	var after models.SiteConfig
	if err := json.Unmarshal(body, &after); err != nil {
		t.Fatalf("Failed to parse merged site config: %v", err)
	}
	if after.Hero.Title != "New" {
		t.Errorf("Hero title not updated: %q", after.Hero.Title)
	}
	if after.Hero.Subtitle != before.Hero.Subtitle {
		t.Errorf("Hero subtitle changed: %q -> %q", before.Hero.Subtitle, after.Hero.Subtitle)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server.URL)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/auth/logout", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Logout returned %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/orders", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 after logout, got %d", resp.StatusCode)
	}

	// logging out again is still a 200
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/auth/logout", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Repeated logout returned %d", resp.StatusCode)
	}
}

func TestUnknownProductRouteIs404(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/products/nope", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}
