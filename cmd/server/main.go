package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/api"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/auth"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/config"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/db"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/model"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/price"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/store"
	"github.com/Violet4Cheetha/KhushiiWithDiamond/internal/web"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. If logPath is non-empty, all
// levels are also written to that file. The returned cleanup closes it.
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("khushii", flag.ContinueOnError)

	srv := &cfg.Server
	fs.StringVar(&srv.DBPath, "db", srv.DBPath, "")
	fs.StringVar(&srv.DBPath, "d", srv.DBPath, "")
	fs.StringVar(&srv.Addr, "addr", srv.Addr, "")
	fs.StringVar(&srv.Addr, "a", srv.Addr, "")
	fs.StringVar(&srv.AdminUser, "user", srv.AdminUser, "")
	fs.StringVar(&srv.AdminUser, "u", srv.AdminUser, "")
	fs.StringVar(&srv.LogPath, "log", srv.LogPath, "")
	fs.StringVar(&srv.LogPath, "l", srv.LogPath, "")

	pc := &cfg.Price
	fs.StringVar(&pc.URL, "price-url", pc.URL, "")
	fs.StringVar(&pc.Field, "price-field", pc.Field, "")
	fs.DurationVar(&pc.Interval, "price-interval", pc.Interval, "")
	fs.Float64Var(&pc.Fallback, "price-fallback", pc.Fallback, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: khushii [flags]

Flags:
  -d, -db <path>             SQLite database path (env KHUSHII_DB, default: khushii.sqlite3)
  -a, -addr <host:port>      listen address (env KHUSHII_ADDR, default: :8080)
  -u, -user <name>           admin username on first run (env KHUSHII_ADMIN_USER, default: Admin)
  -l, -log <path>            log file path (env KHUSHII_LOG, default: stdout/stderr only)
  -price-url <url>           gold price JSON endpoint (env GOLD_PRICE_URL, default: none)
  -price-field <path>        dot path of the price in the response (env GOLD_PRICE_FIELD, default: price)
  -price-interval <dur>      refresh interval (env GOLD_PRICE_INTERVAL, default: 24h)
  -price-fallback <number>   price shown until the first fetch (env GOLD_PRICE_FALLBACK)
  -h, -help                  show this help and exit

Settings may also be placed in a .env file in the working directory.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := setupLogger(srv.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	// Check if DB exists, auto-init if not.
	if _, err := os.Stat(srv.DBPath); os.IsNotExist(err) {
		database, password, err := initDatabase(srv.DBPath, srv.AdminUser)
		if err != nil {
			slog.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		database.Close()

		printInitResult(srv.DBPath, srv.AdminUser, password)
		fmt.Println()
	}

	database, err := db.Open(srv.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", srv.DBPath)

	ctx := context.Background()

	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}
	tokens := auth.NewTokens(jwtSecret, srv.JWTIssuer)

	poller := newPoller(ctx, database, cfg.Price)
	pollCtx, stopPolling := context.WithCancel(ctx)
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		if cfg.Price.URL == "" {
			slog.Warn("no gold price source configured, showing fallback price", "price", poller.State().Price)
			return
		}
		poller.Run(pollCtx)
	}()

	apiRouter := api.NewRouter(database, tokens, poller)
	webRouter, err := web.NewRouter(database, tokens, poller)
	if err != nil {
		slog.Error("failed to set up web router", "error", err)
		os.Exit(1)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              srv.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		stopPolling()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", srv.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	stopPolling()
	<-pollDone
	slog.Info("server stopped, closing database")
}

// newPoller builds the gold price poller. The admin setting overrides the
// configured fallback price.
func newPoller(ctx context.Context, database *sqlx.DB, pc config.PriceConfig) *price.Poller {
	fallback := pc.Fallback
	if v, ok, err := store.GetSetting(ctx, database, model.SettingFallbackPrice); err != nil {
		slog.Error("failed to read fallback price setting", "error", err)
	} else if ok {
		if p, err := model.ParsePrice(v); err == nil {
			fallback = p
		}
	}

	source := price.NewHTTPSource(pc.URL, pc.Field, pc.Timeout)
	return price.NewPoller(source, fallback, pc.Interval)
}

// initDatabase creates a new database, ensures the schema, and creates the admin user.
func initDatabase(path, adminUsername string) (*sqlx.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(err error) (*sqlx.DB, string, error) {
		database.Close()
		os.Remove(path)
		return nil, "", err
	}

	if err := db.EnsureSchema(database); err != nil {
		return fail(fmt.Errorf("ensuring schema: %w", err))
	}

	password, err := generatePassword(16)
	if err != nil {
		return fail(fmt.Errorf("generating password: %w", err))
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fail(err)
	}

	if _, err := store.CreateUser(context.Background(), database, adminUsername, hash, model.RoleAdmin); err != nil {
		return fail(fmt.Errorf("creating admin user: %w", err))
	}

	return database, password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
