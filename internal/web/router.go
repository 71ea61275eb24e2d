package web

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/auth"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/policy"
	webembed "github.com/Violet4Cheetha/KhushiiWithDiamond/web"
)

// access is one table operation a page performs.
type access struct {
	table policy.Table
	op    policy.Op
}

// NewRouter creates the web page router: the public storefront and the
// cookie-authenticated admin.
func NewRouter(db *sqlx.DB, tokens *auth.Tokens, prices Prices) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		Tokens:    tokens,
		Prices:    prices,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(tokens, db)

	// page gates h on the policy for every table it touches.
	page := func(h http.HandlerFunc, rules ...access) http.Handler {
		var handler http.Handler = h
		for _, rule := range rules {
			handler = s.requirePolicy(rule.table, rule.op)(handler)
		}
		return handler
	}
	admin := func(h http.HandlerFunc, rules ...access) http.Handler {
		return cookieAuth(page(h, rules...))
	}

	readCatalog := []access{{policy.Categories, policy.Read}, {policy.JewelryItems, policy.Read}}
	deleteCategory := append([]access{{policy.Categories, policy.Delete}}, readCatalog...)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Storefront (public).
	mux.Handle("GET /{$}", page(s.Storefront, readCatalog...))
	mux.Handle("GET /shop/{id}", page(s.ShopCategory, readCatalog...))

	// Sign in.
	mux.HandleFunc("GET /admin/login", s.LoginPage)
	mux.HandleFunc("POST /admin/login", s.LoginSubmit)
	mux.Handle("POST /admin/logout", cookieAuth(http.HandlerFunc(s.Logout)))

	// Categories.
	mux.Handle("GET /admin", admin(s.CategoriesPage, readCatalog...))
	mux.Handle("POST /admin/categories/{id}/toggle", admin(s.ToggleCategory, access{policy.Categories, policy.Read}))
	mux.Handle("GET /admin/categories/new", admin(s.NewCategoryPage, access{policy.Categories, policy.Read}))
	mux.Handle("POST /admin/categories", admin(s.CategorySubmit, access{policy.Categories, policy.Insert}))
	mux.Handle("GET /admin/categories/{id}/edit", admin(s.EditCategoryPage, access{policy.Categories, policy.Read}))
	mux.Handle("POST /admin/categories/{id}", admin(s.CategorySubmit, access{policy.Categories, policy.Update}))
	mux.Handle("GET /admin/categories/{id}/delete", admin(s.DeleteCategoryPage, deleteCategory...))
	mux.Handle("POST /admin/categories/{id}/delete", admin(s.DeleteCategorySubmit, deleteCategory...))

	// Jewelry items.
	mux.Handle("GET /admin/items", admin(s.ItemsPage, readCatalog...))
	mux.Handle("POST /admin/items", admin(s.ItemCreateSubmit, access{policy.JewelryItems, policy.Insert}))
	mux.Handle("POST /admin/items/{id}/delete", admin(s.ItemDeleteSubmit, access{policy.JewelryItems, policy.Delete}))

	// Settings and own password.
	mux.Handle("GET /admin/settings", admin(s.SettingsPage, access{policy.AdminSettings, policy.Read}))
	mux.Handle("POST /admin/settings", admin(s.SettingsSubmit, access{policy.AdminSettings, policy.Insert}, access{policy.AdminSettings, policy.Update}))
	mux.Handle("POST /admin/settings/password", cookieAuth(http.HandlerFunc(s.PasswordSubmit)))

	// Accounts (admin role).
	mux.Handle("GET /admin/users", cookieAuth(s.requireAdmin(http.HandlerFunc(s.UsersPage))))
	mux.Handle("POST /admin/users", cookieAuth(s.requireAdmin(http.HandlerFunc(s.UserCreateSubmit))))
	mux.Handle("POST /admin/users/{id}/delete", cookieAuth(s.requireAdmin(http.HandlerFunc(s.UserDeleteSubmit))))

	return mux, nil
}
