package model

import (
	"errors"
	"testing"
)

func TestValidateSetting(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{SettingStoreName, "Khushii With Diamond", false},
		{SettingFallbackPrice, "6250.50", false},
		{SettingFallbackPrice, " 7000 ", false},
		{SettingFallbackPrice, "0", true},
		{SettingFallbackPrice, "-5", true},
		{SettingFallbackPrice, "cheap", true},
		{SettingFallbackPrice, "NaN", true},
		{SettingFallbackPrice, "+Inf", true},
		{"Bad Key", "x", true},
		{"", "x", true},
		{SettingJWTSecret, "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := ValidateSetting(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSetting(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}

	if err := ValidateSetting(SettingJWTSecret, "x"); !errors.Is(err, ErrReservedSetting) {
		t.Errorf("expected ErrReservedSetting, got %v", err)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"6100.25", 6100.25, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"-Inf", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := ParsePrice(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrice(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && v != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.in, v, tt.want)
			}
		})
	}
}
