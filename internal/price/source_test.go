package price

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPSourceFetch(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		field   string
		want    float64
		wantErr bool
	}{
		{"top-level number", http.StatusOK, `{"price": 6512.25}`, "", 6512.25, false},
		{"nested path", http.StatusOK, `{"data": {"gold": {"inr": 6400}}}`, "data.gold.inr", 6400, false},
		{"numeric string", http.StatusOK, `{"rate": " 6100.5 "}`, "rate", 6100.5, false},
		{"missing field", http.StatusOK, `{"other": 1}`, "price", 0, true},
		{"not a number", http.StatusOK, `{"price": true}`, "price", 0, true},
		{"non-positive", http.StatusOK, `{"price": 0}`, "price", 0, true},
		{"NaN string", http.StatusOK, `{"price": "NaN"}`, "price", 0, true},
		{"Inf string", http.StatusOK, `{"price": "Inf"}`, "price", 0, true},
		{"negative infinity string", http.StatusOK, `{"price": "-Inf"}`, "price", 0, true},
		{"bad status", http.StatusBadGateway, `{"price": 1}`, "price", 0, true},
		{"bad json", http.StatusOK, `not json`, "price", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			src := NewHTTPSource(server.URL, tt.field, time.Second)
			got, err := src.Fetch(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Fetch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Fetch() = %v, want %v", got, tt.want)
			}
		})
	}
}
