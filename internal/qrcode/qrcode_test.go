package qrcode

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func buildToken(baseURL string, tableID int64, number string, ts time.Time) string {
	q := url.Values{}
	q.Set("type", "table")
	q.Set("id", strconv.FormatInt(tableID, 10))
	q.Set("number", number)
	q.Set("timestamp", strconv.FormatInt(ts.UnixMilli(), 10))
	return fmt.Sprintf("%s/menu/?%s", baseURL, q.Encode())
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	codec := NewCodec("https://resto.example.com", 24*time.Hour)

	token, image, err := codec.Encode(7, "T7")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.HasPrefix(token, "https://resto.example.com/menu/?") {
		t.Errorf("unexpected token shape: %s", token)
	}
	if !strings.HasPrefix(image, "data:image/png;base64,") {
		t.Errorf("expected PNG data URL, got prefix %q", image[:30])
	}

	p, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if p.Type != "table" {
		t.Errorf("expected type table, got %q", p.Type)
	}
	if p.TableID != 7 {
		t.Errorf("expected table id 7, got %d", p.TableID)
	}
	if p.TableNumber != "T7" {
		t.Errorf("expected table number T7, got %q", p.TableNumber)
	}
	if time.Since(p.Timestamp) > time.Minute {
		t.Errorf("timestamp too old: %v", p.Timestamp)
	}
}

func TestValidate(t *testing.T) {
	base := "https://resto.example.com"
	codec := NewCodec(base, 24*time.Hour)

	tests := []struct {
		name       string
		token      string
		wantReason string
	}{
		{
			name:       "fresh token accepted",
			token:      buildToken(base, 3, "T3", time.Now()),
			wantReason: "",
		},
		{
			name:       "wrong type",
			token:      base + "/menu/?type=coupon&id=3&number=T3&timestamp=" + strconv.FormatInt(time.Now().UnixMilli(), 10),
			wantReason: "QR code invalide",
		},
		{
			name:       "missing table id",
			token:      base + "/menu/?type=table&number=T3&timestamp=" + strconv.FormatInt(time.Now().UnixMilli(), 10),
			wantReason: "QR code invalide",
		},
		{
			name:       "missing table number",
			token:      base + "/menu/?type=table&id=3&timestamp=" + strconv.FormatInt(time.Now().UnixMilli(), 10),
			wantReason: "QR code invalide",
		},
		{
			name:       "non-numeric timestamp",
			token:      base + "/menu/?type=table&id=3&number=T3&timestamp=abc",
			wantReason: "QR code invalide",
		},
		{
			name:       "no timestamp at all",
			token:      base + "/menu/?type=table&id=3&number=T3",
			wantReason: "QR code expiré",
		},
		{
			name:       "token older than max age",
			token:      buildToken(base, 3, "T3", time.Now().Add(-25*time.Hour)),
			wantReason: "QR code expiré",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, reason := codec.Validate(tt.token)
			if reason != tt.wantReason {
				t.Fatalf("expected reason %q, got %q", tt.wantReason, reason)
			}
			if reason == "" && p.TableID != 3 {
				t.Errorf("expected table id 3, got %d", p.TableID)
			}
		})
	}
}

func TestRenderMatchesToken(t *testing.T) {
	codec := NewCodec("https://resto.example.com", 24*time.Hour)

	token, image, err := codec.Encode(9, "T9")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Rendering a stored token must reproduce exactly the image its encoding
	// produced; a re-encode would carry a fresh timestamp.
	rendered, err := codec.Render(token)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if rendered != image {
		t.Error("rendered image differs from the token's original encoding")
	}

	again, err := codec.Render(token)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if again != rendered {
		t.Error("Render is not deterministic for a fixed token")
	}
}

func TestValidateExpiryDisabled(t *testing.T) {
	codec := NewCodec("https://resto.example.com", 0)

	old := buildToken("https://resto.example.com", 5, "T5", time.Now().Add(-30*24*time.Hour))
	p, reason := codec.Validate(old)
	if reason != "" {
		t.Fatalf("expected month-old token accepted with expiry disabled, got %q", reason)
	}
	if p.TableNumber != "T5" {
		t.Errorf("expected table number T5, got %q", p.TableNumber)
	}
}
