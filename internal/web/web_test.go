package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/auth"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/db"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/price"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/store"
)

type staticPrices struct{ state price.State }

func (p *staticPrices) State() price.State      { return p.state }
func (p *staticPrices) SetFallback(v float64) { p.state.Price = v }

type testSite struct {
	server *httptest.Server
	db     *sqlx.DB
	prices *staticPrices
	client *http.Client
}

func setupSite(t *testing.T) *testSite {
	t.Helper()
	database := db.NewTestDB(t)
	prices := &staticPrices{state: price.State{Price: 6200}}

	router, err := NewRouter(database, auth.NewTokens("test-secret", "test"), prices)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	hash, _ := auth.HashPassword("password")
	if _, err := store.CreateUser(context.Background(), database, "admin", hash, model.RoleAdmin); err != nil {
		t.Fatal(err)
	}

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testSite{server: server, db: database, prices: prices, client: client}
}

func (s *testSite) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := s.client.Get(s.server.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	return resp, readBody(t, resp)
}

func (s *testSite) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := s.client.PostForm(s.server.URL+path, form)
	if err != nil {
		t.Fatal(err)
	}
	return resp, readBody(t, resp)
}

func (s *testSite) login(t *testing.T) {
	t.Helper()
	resp, _ := s.post(t, "/admin/login", url.Values{"username": {"admin"}, "password": {"password"}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/admin" {
		t.Fatalf("login: expected redirect to /admin, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func strPtr(s string) *string { return &s }

func TestStorefrontIsPublic(t *testing.T) {
	site := setupSite(t)
	ctx := context.Background()

	rings, _ := store.CreateCategory(ctx, site.db, model.CategoryInput{Name: "Rings", ImageURL: strPtr("a.jpg, b.jpg")})
	store.CreateCategory(ctx, site.db, model.CategoryInput{Name: "Engagement", ParentID: &rings.ID})
	store.CreateJewelryItem(ctx, site.db, model.JewelryItemInput{Name: "Solitaire", Category: "Rings", Price: 125000, InStock: true})

	resp, body := site.get(t, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{"Rings", "Engagement", `src="a.jpg"`, "1 piece", "₹6,200"} {
		if !strings.Contains(body, want) {
			t.Errorf("storefront missing %q", want)
		}
	}

	resp, body = site.get(t, "/shop/"+rings.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Solitaire") || !strings.Contains(body, "₹125,000") {
		t.Error("category page missing item")
	}

	if resp, _ := site.get(t, "/shop/missing"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown category, got %d", resp.StatusCode)
	}
}

func TestAdminRequiresLogin(t *testing.T) {
	site := setupSite(t)

	for _, path := range []string{"/admin", "/admin/items", "/admin/settings", "/admin/categories/new"} {
		resp, _ := site.get(t, path)
		if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != loginPath {
			t.Errorf("%s: expected redirect to login, got %d %q", path, resp.StatusCode, resp.Header.Get("Location"))
		}
	}

	resp, body := site.post(t, "/admin/login", url.Values{"username": {"admin"}, "password": {"nope"}})
	if resp.StatusCode != http.StatusUnauthorized || !strings.Contains(body, "Wrong username or password") {
		t.Errorf("expected failed login page, got %d", resp.StatusCode)
	}
}

func TestCategoryFormCreateAndEdit(t *testing.T) {
	site := setupSite(t)
	site.login(t)
	ctx := context.Background()

	resp, _ := site.post(t, "/admin/categories", url.Values{
		"name":        {"Rings"},
		"description": {""},
		"image_url":   {"a.jpg, b.jpg"},
		"parent_id":   {""},
	})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/admin" {
		t.Fatalf("expected redirect after create, got %d", resp.StatusCode)
	}

	categories, _ := store.ListCategories(ctx, site.db)
	if len(categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(categories))
	}
	rings := categories[0]
	if rings.ParentID != nil || rings.Description != nil {
		t.Errorf("expected blank fields stored as NULL, got %+v", rings)
	}

	// Edit form is pre-filled.
	resp, body := site.get(t, "/admin/categories/"+rings.ID+"/edit")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `value="Rings"`) {
		t.Errorf("expected pre-filled edit form, got %d", resp.StatusCode)
	}

	resp, _ = site.post(t, "/admin/categories/"+rings.ID, url.Values{
		"name":      {"Fine Rings"},
		"image_url": {"a.jpg, b.jpg"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect after edit, got %d", resp.StatusCode)
	}
	updated, _ := store.GetCategory(ctx, site.db, rings.ID)
	if updated.Name != "Fine Rings" {
		t.Errorf("expected renamed category, got %q", updated.Name)
	}
}

func TestCategoryFormFailureKeepsInput(t *testing.T) {
	site := setupSite(t)
	site.login(t)

	resp, body := site.post(t, "/admin/categories", url.Values{
		"name":        {"  "},
		"description": {"keep this text"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Name is required.") {
		t.Error("expected validation message")
	}
	if !strings.Contains(body, "keep this text") {
		t.Error("expected input to be preserved")
	}

	categories, _ := store.ListCategories(context.Background(), site.db)
	if len(categories) != 0 {
		t.Errorf("expected nothing saved, got %d categories", len(categories))
	}
}

func TestParentOptionsOnlyTopLevel(t *testing.T) {
	site := setupSite(t)
	site.login(t)
	ctx := context.Background()

	rings, _ := store.CreateCategory(ctx, site.db, model.CategoryInput{Name: "Rings"})
	sub, _ := store.CreateCategory(ctx, site.db, model.CategoryInput{Name: "Engagement", ParentID: &rings.ID})

	_, body := site.get(t, "/admin/categories/new")
	if !strings.Contains(body, `value="`+rings.ID+`"`) {
		t.Error("expected top-level category as parent option")
	}
	if strings.Contains(body, `value="`+sub.ID+`"`) {
		t.Error("subcategory must not be offered as parent")
	}

	resp, _ := site.post(t, "/admin/categories", url.Values{"name": {"Deep"}, "parent_id": {sub.ID}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for third-tier parent, got %d", resp.StatusCode)
	}
}

func TestToggleExpandsCategory(t *testing.T) {
	site := setupSite(t)
	site.login(t)
	ctx := context.Background()

	rings, _ := store.CreateCategory(ctx, site.db, model.CategoryInput{Name: "Rings"})
	store.CreateCategory(ctx, site.db, model.CategoryInput{Name: "Engagement", ParentID: &rings.ID})

	_, body := site.get(t, "/admin")
	if strings.Contains(body, "Engagement") {
		t.Error("expected children hidden while collapsed")
	}

	resp, _ := site.post(t, "/admin/categories/"+rings.ID+"/toggle", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect after toggle, got %d", resp.StatusCode)
	}

	_, body = site.get(t, "/admin")
	if !strings.Contains(body, "Engagement") {
		t.Error("expected children shown after expanding")
	}

	site.post(t, "/admin/categories/"+rings.ID+"/toggle", nil)
	_, body = site.get(t, "/admin")
	if strings.Contains(body, "Engagement") {
		t.Error("expected children hidden after collapsing again")
	}
}

func TestDeleteGuard(t *testing.T) {
	site := setupSite(t)
	site.login(t)
	ctx := context.Background()

	rings, _ := store.CreateCategory(ctx, site.db, model.CategoryInput{Name: "Rings"})
	for _, name := range []string{"Solitaire", "Halo"} {
		store.CreateJewelryItem(ctx, site.db, model.JewelryItemInput{Name: name, Category: "Rings"})
	}

	resp, body := site.get(t, "/admin/categories/"+rings.ID+"/delete")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "2 items use this category") {
		t.Error("expected guard message citing 2 items")
	}

	resp, _ = site.post(t, "/admin/categories/"+rings.ID+"/delete", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected POST to be guarded too, got %d", resp.StatusCode)
	}
	if c, _ := store.GetCategory(ctx, site.db, rings.ID); c == nil {
		t.Fatal("category must not be deleted while items reference it")
	}

	items, _ := store.ListJewelryItems(ctx, site.db, "Rings")
	for _, item := range items {
		store.DeleteJewelryItem(ctx, site.db, item.ID)
	}

	resp, body = site.get(t, "/admin/categories/"+rings.ID+"/delete")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "This cannot be undone") {
		t.Fatalf("expected confirmation page, got %d", resp.StatusCode)
	}

	resp, _ = site.post(t, "/admin/categories/"+rings.ID+"/delete", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect after delete, got %d", resp.StatusCode)
	}
	if c, _ := store.GetCategory(ctx, site.db, rings.ID); c != nil {
		t.Error("expected category to be deleted")
	}
}

func TestSettingsUpdateFallbackPrice(t *testing.T) {
	site := setupSite(t)
	site.login(t)

	resp, body := site.post(t, "/admin/settings", url.Values{"key": {model.SettingFallbackPrice}, "value": {"6450"}})
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Setting saved.") {
		t.Fatalf("expected saved setting, got %d", resp.StatusCode)
	}
	if site.prices.state.Price != 6450 {
		t.Errorf("expected fallback pushed to poller, got %v", site.prices.state.Price)
	}

	resp, _ = site.post(t, "/admin/settings", url.Values{"key": {model.SettingJWTSecret}, "value": {"x"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected reserved key rejected, got %d", resp.StatusCode)
	}
}

func TestItemsPage(t *testing.T) {
	site := setupSite(t)
	site.login(t)
	ctx := context.Background()
	store.CreateCategory(ctx, site.db, model.CategoryInput{Name: "Necklaces"})

	resp, body := site.post(t, "/admin/items", url.Values{
		"name":     {"Rani Haar"},
		"category": {"Necklaces"},
		"price":    {"abc"},
	})
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "Rani Haar") {
		t.Errorf("expected 400 with preserved input, got %d", resp.StatusCode)
	}

	resp, _ = site.post(t, "/admin/items", url.Values{
		"name":     {"Rani Haar"},
		"category": {"Necklaces"},
		"price":    {"98000"},
		"in_stock": {"1"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	n, _ := store.CountItemsInCategory(ctx, site.db, "Necklaces")
	if n != 1 {
		t.Errorf("expected 1 necklace, got %d", n)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	site := setupSite(t)
	site.login(t)

	serverURL, _ := url.Parse(site.server.URL)
	stolen := site.client.Jar.Cookies(serverURL)

	resp, _ := site.post(t, "/admin/logout", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect after logout, got %d", resp.StatusCode)
	}

	// Replaying the old cookie no longer works.
	req, _ := http.NewRequest("GET", site.server.URL+"/admin", nil)
	for _, c := range stolen {
		req.AddCookie(c)
	}
	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("expected revoked session to redirect, got %d", resp.StatusCode)
	}
}

func TestUsersPageAdminOnly(t *testing.T) {
	site := setupSite(t)
	hash, _ := auth.HashPassword("password")
	store.CreateUser(context.Background(), site.db, "editor", hash, model.RoleEditor)

	site.post(t, "/admin/login", url.Values{"username": {"editor"}, "password": {"password"}})
	resp, _ := site.get(t, "/admin/users")
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for editor, got %d", resp.StatusCode)
	}
}
