// Package price keeps the current gold price fresh from an external feed.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Source fetches the current price.
type Source interface {
	Fetch(ctx context.Context) (float64, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (float64, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context) (float64, error) {
	return f(ctx)
}

// HTTPSource reads a price from a JSON endpoint. Field is a dot-separated
// path to a number (or numeric string) in the response object, e.g.
// "price" or "data.gold.inr".
type HTTPSource struct {
	URL    string
	Field  string
	Client *http.Client
}

// NewHTTPSource returns an HTTPSource with a bounded client timeout.
func NewHTTPSource(url, field string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Field:  field,
		Client: &http.Client{Timeout: timeout},
	}
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("building price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("requesting price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("price source returned %s", resp.Status)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decoding price response: %w", err)
	}

	value, err := lookup(body, s.Field)
	if err != nil {
		return 0, err
	}
	if !Valid(value) {
		return 0, fmt.Errorf("price source returned invalid price %v", value)
	}
	return value, nil
}

// Valid reports whether v can be shown as a price: finite and positive.
func Valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func lookup(body map[string]any, path string) (float64, error) {
	if path == "" {
		path = "price"
	}
	var cur any = body
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return 0, fmt.Errorf("price field %q: %q is not an object", path, key)
		}
		if cur, ok = obj[key]; !ok {
			return 0, fmt.Errorf("price field %q missing", path)
		}
	}

	switch v := cur.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("price field %q: %w", path, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("price field %q is not a finite number", path)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("price field %q is not a number", path)
	}
}
