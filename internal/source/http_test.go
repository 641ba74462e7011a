package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"goldarb/internal/domain"
)

const persianPage = `<!DOCTYPE html>
<html lang="fa"><body>
<div class="gold-price">
  <span class="label">قیمت ۱ گرم طلای ۱۸ عیار</span>
  <span class="value">۸۶,۶۱۰,۰۰۰ ریال</span>
</div>
<div class="change text-danger">
  <span>تغییرات</span>
  <span>۱.۴۷%</span>
</div>
</body></html>`

func testSite(url string) Site {
	return Site{
		Name:          "milli",
		URL:           url,
		Currency:      "IRR",
		PricePattern:  groupedPrice,
		ChangePattern: signedPercent,
		PositiveCues:  positiveCues,
		NegativeCues:  negativeCues,
	}
}

func TestFetch_ExtractsPersianPriceAndChange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(persianPage))
	}))
	defer srv.Close()

	src, err := NewHTTPSource(testSite(srv.URL), srv.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.Source != "milli" {
		t.Errorf("expected source milli, got %s", raw.Source)
	}
	if raw.Price != "86,610,000" {
		t.Errorf("expected translated price 86,610,000, got %q", raw.Price)
	}
	if raw.Change != "1.47%" {
		t.Errorf("expected change 1.47%%, got %q", raw.Change)
	}
	// The unsigned change sits inside a text-danger element: negative cue.
	if raw.Cue != domain.CueNegative {
		t.Errorf("expected negative cue, got %q", raw.Cue)
	}
}

func TestFetch_NoPriceMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>under maintenance</body></html>"))
	}))
	defer srv.Close()

	src, err := NewHTTPSource(testSite(srv.URL), srv.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("expected an error when the page has no price")
	}
}

func TestFetch_Non200Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	src, err := NewHTTPSource(testSite(srv.URL), srv.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestRegistry_BuildAllAndSubset(t *testing.T) {
	reg := NewRegistry(Sites, nil)

	all, err := reg.Build(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != len(Sites) {
		t.Errorf("expected %d adapters, got %d", len(Sites), len(all))
	}

	subset, err := reg.Build([]string{"milli", "goldika"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subset) != 2 {
		t.Errorf("expected 2 adapters, got %d", len(subset))
	}

	if _, err := reg.Build([]string{"nope"}); err == nil {
		t.Error("expected an error for an unknown site name")
	}
}
