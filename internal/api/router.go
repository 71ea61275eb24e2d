package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/auth"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/policy"
)

// NewRouter creates the API router with all endpoints registered. Every
// table route is gated by the access policy; the bearer token is optional
// and only decides whether the caller is anonymous or authenticated.
func NewRouter(db *sqlx.DB, tokens *auth.Tokens, prices Prices) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, Tokens: tokens}
	usersHandler := &UsersHandler{DB: db}
	categoriesHandler := &CategoriesHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	settingsHandler := &SettingsHandler{DB: db, Prices: prices}
	priceHandler := &PriceHandler{Prices: prices}

	signedIn := RequireRole(model.RoleEditor)
	requireAdmin := RequireRole(model.RoleAdmin)
	allow := func(table policy.Table, op policy.Op, h http.HandlerFunc) http.Handler {
		return RequirePolicy(table, op)(h)
	}

	// Auth.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("POST /api/auth/logout", signedIn(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", signedIn(http.HandlerFunc(authHandler.ChangePassword)))

	// Users (admin only).
	mux.Handle("GET /api/users", requireAdmin(http.HandlerFunc(usersHandler.List)))
	mux.Handle("POST /api/users", requireAdmin(http.HandlerFunc(usersHandler.Create)))
	mux.Handle("PUT /api/users/{id}/password", requireAdmin(http.HandlerFunc(usersHandler.ResetPassword)))
	mux.Handle("DELETE /api/users/{id}", requireAdmin(http.HandlerFunc(usersHandler.Delete)))

	// Categories. The tree reads both tables.
	mux.Handle("GET /api/categories", allow(policy.Categories, policy.Read, categoriesHandler.List))
	mux.Handle("GET /api/categories/tree", RequirePolicy(policy.JewelryItems, policy.Read)(
		allow(policy.Categories, policy.Read, categoriesHandler.Tree)))
	mux.Handle("POST /api/categories", allow(policy.Categories, policy.Insert, categoriesHandler.Create))
	mux.Handle("GET /api/categories/{id}", allow(policy.Categories, policy.Read, categoriesHandler.Get))
	mux.Handle("PUT /api/categories/{id}", allow(policy.Categories, policy.Update, categoriesHandler.Update))
	mux.Handle("DELETE /api/categories/{id}", allow(policy.Categories, policy.Delete, categoriesHandler.Delete))

	// Jewelry items.
	mux.Handle("GET /api/items", allow(policy.JewelryItems, policy.Read, itemsHandler.List))
	mux.Handle("POST /api/items", allow(policy.JewelryItems, policy.Insert, itemsHandler.Create))
	mux.Handle("GET /api/items/{id}", allow(policy.JewelryItems, policy.Read, itemsHandler.Get))
	mux.Handle("PUT /api/items/{id}", allow(policy.JewelryItems, policy.Update, itemsHandler.Update))
	mux.Handle("DELETE /api/items/{id}", allow(policy.JewelryItems, policy.Delete, itemsHandler.Delete))

	// Admin settings. PUT is an upsert, so it needs both insert and update.
	mux.Handle("GET /api/settings", allow(policy.AdminSettings, policy.Read, settingsHandler.List))
	mux.Handle("PUT /api/settings/{key}", RequirePolicy(policy.AdminSettings, policy.Insert)(
		allow(policy.AdminSettings, policy.Update, settingsHandler.Put)))

	// Gold price (public).
	mux.HandleFunc("GET /api/price", priceHandler.Get)

	return Authenticate(tokens, db)(mux)
}
