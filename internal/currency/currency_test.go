package currency

import (
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name     string
		lang     string
		timezone string
		wantCode string
	}{
		{"region from language tag", "en-GB", "", "GBP"},
		{"accept-language list", "de-DE,de;q=0.9,en;q=0.8", "", "EUR"},
		{"no region falls back to timezone", "en", "Asia/Tokyo", "JPY"},
		{"bare english tag does not imply US", "en", "Europe/London", "GBP"},
		{"unknown everything defaults", "xx", "Mars/Olympus", "USD"},
		{"empty hints default", "", "", "USD"},
		{"unknown country defaults", "en-AQ", "", "USD"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Detect(tc.lang, tc.timezone)
			if got.Code != tc.wantCode {
				t.Fatalf("got %s want %s", got.Code, tc.wantCode)
			}
		})
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	a := Detect("fr-FR", "")
	b := Detect("fr-FR", "")
	if a != b {
		t.Fatalf("detection not stable: %v vs %v", a, b)
	}
}

func TestFormatterFallback(t *testing.T) {
	f := NewFormatter(Info{Symbol: "#", Code: "NOPE", Locale: "en-US"})
	if got := f.Format(12.5); got != "#12.50" {
		t.Fatalf("got %q want %q", got, "#12.50")
	}
}

func TestFormatterUSD(t *testing.T) {
	f := NewFormatter(Default)
	got := f.Format(1234.5)
	if !strings.Contains(got, "1,234.50") {
		t.Fatalf("expected grouped two-decimal amount, got %q", got)
	}
	if !strings.Contains(got, "$") {
		t.Fatalf("expected dollar symbol, got %q", got)
	}
}
