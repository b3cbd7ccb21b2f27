package services

import (
	"fmt"
	"math"
	"testing"

	"properati-pricer/models"
	"properati-pricer/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

// sellApartment builds a raw listing that passes every filter.
func sellApartment(url string, area float64) *models.RawListing {
	return &models.RawListing{
		Operation:      "sell",
		PropertyType:   "apartment",
		Place:          "|Argentina|Capital Federal|Palermo|",
		LatLon:         "-34.58,-58.42",
		PriceUSD:       "150000",
		SurfaceCovered: fmt.Sprintf("%g", area),
		URL:            url,
	}
}

func TestWrangleFiltersNonTargets(t *testing.T) {
	w := NewWrangler(newTestLogger(), 400000, 0)

	raw := []*models.RawListing{
		sellApartment("http://example.com/keep", 70),
		{Operation: "rent", PropertyType: "apartment", Place: "|Argentina|Capital Federal|Palermo|",
			PriceUSD: "150000", SurfaceCovered: "70", URL: "http://example.com/rent"},
		{Operation: "sell", PropertyType: "house", Place: "|Argentina|Capital Federal|Palermo|",
			PriceUSD: "150000", SurfaceCovered: "70", URL: "http://example.com/house"},
		{Operation: "sell", PropertyType: "apartment", Place: "|Argentina|Bs.As. G.B.A. Zona Norte|Tigre|",
			PriceUSD: "150000", SurfaceCovered: "70", URL: "http://example.com/tigre"},
	}

	clean, st := w.Wrangle(raw)
	if len(clean) != 1 {
		t.Fatalf("clean listings: got %d, want 1", len(clean))
	}
	if st.DroppedOperation != 1 {
		t.Errorf("DroppedOperation: got %d, want 1", st.DroppedOperation)
	}
	if st.DroppedPropertyType != 1 {
		t.Errorf("DroppedPropertyType: got %d, want 1", st.DroppedPropertyType)
	}
	if st.DroppedLocation != 1 {
		t.Errorf("DroppedLocation: got %d, want 1", st.DroppedLocation)
	}
	if st.RowsKept != 1 || st.Dropped() != 3 {
		t.Errorf("stats totals: kept %d dropped %d, want 1/3", st.RowsKept, st.Dropped())
	}
}

func TestWrangleDropsEmptyURL(t *testing.T) {
	w := NewWrangler(newTestLogger(), 400000, 0)
	raw := []*models.RawListing{
		sellApartment("", 70),
		sellApartment("http://example.com/1", 70),
	}

	clean, st := w.Wrangle(raw)
	if len(clean) != 1 {
		t.Errorf("expected 1 listing after dropping empty URL, got %d", len(clean))
	}
	if st.DroppedEmptyURL != 1 {
		t.Errorf("DroppedEmptyURL: got %d, want 1", st.DroppedEmptyURL)
	}
}

func TestWrangleDeduplicatesURL(t *testing.T) {
	w := NewWrangler(newTestLogger(), 400000, 0)
	raw := []*models.RawListing{
		sellApartment("http://example.com/1", 70),
		sellApartment("http://example.com/1", 80),
	}

	clean, st := w.Wrangle(raw)
	if len(clean) != 1 {
		t.Errorf("expected 1 listing after deduplication, got %d", len(clean))
	}
	if st.DroppedDuplicateURL != 1 {
		t.Errorf("DroppedDuplicateURL: got %d, want 1", st.DroppedDuplicateURL)
	}
}

func TestWranglePriceBounds(t *testing.T) {
	w := NewWrangler(newTestLogger(), 400000, 0)

	tests := []struct {
		priceUSD string
		kept     bool
	}{
		{"399999", true},
		{"400000", false}, // cap is exclusive
		{"500000", false},
		{"0", false},
		{"-100", false},
		{"not-a-number", false},
		{"", false},
	}

	for i, tt := range tests {
		r := sellApartment(fmt.Sprintf("http://example.com/%d", i), 70)
		r.PriceUSD = tt.priceUSD
		clean, _ := w.Wrangle([]*models.RawListing{r})
		if got := len(clean) == 1; got != tt.kept {
			t.Errorf("price %q: kept=%v, want %v", tt.priceUSD, got, tt.kept)
		}
	}
}

func TestWrangleParsesLatLon(t *testing.T) {
	w := NewWrangler(newTestLogger(), 400000, 0)

	r := sellApartment("http://example.com/1", 70)
	r.LatLon = "-34.5846508,-58.4546932"
	clean, _ := w.Wrangle([]*models.RawListing{r})
	if len(clean) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(clean))
	}
	if clean[0].Lat != -34.5846508 || clean[0].Lon != -58.4546932 {
		t.Errorf("lat/lon: got %v,%v", clean[0].Lat, clean[0].Lon)
	}

	r2 := sellApartment("http://example.com/2", 70)
	r2.LatLon = ""
	clean2, _ := w.Wrangle([]*models.RawListing{r2})
	if len(clean2) != 1 {
		t.Fatalf("row without coordinates must survive, got %d rows", len(clean2))
	}
	if !math.IsNaN(clean2[0].Lat) || !math.IsNaN(clean2[0].Lon) {
		t.Errorf("missing coordinates should become NaN, got %v,%v", clean2[0].Lat, clean2[0].Lon)
	}
	if clean2[0].HasCoordinates() {
		t.Error("HasCoordinates should be false for NaN coordinates")
	}
}

func TestWrangleNeighborhoodExtraction(t *testing.T) {
	w := NewWrangler(newTestLogger(), 400000, 0)

	tests := []struct {
		place string
		want  string
	}{
		{"|Argentina|Capital Federal|Palermo|", "Palermo"},
		{"|Argentina|Capital Federal|Belgrano|Belgrano Barrancas|", "Belgrano"},
		{"|Argentina|Capital Federal|", "Capital Federal"},
	}

	for i, tt := range tests {
		r := sellApartment(fmt.Sprintf("http://example.com/%d", i), 70)
		r.Place = tt.place
		clean, _ := w.Wrangle([]*models.RawListing{r})
		if len(clean) != 1 {
			t.Fatalf("place %q: expected 1 listing, got %d", tt.place, len(clean))
		}
		if clean[0].Neighborhood != tt.want {
			t.Errorf("place %q: neighborhood got %q, want %q", tt.place, clean[0].Neighborhood, tt.want)
		}
	}
}

func TestWrangleTrimsAreaOutliers(t *testing.T) {
	w := NewWrangler(newTestLogger(), 400000, 10)

	// Areas 10, 20, ..., 200: the 10th/90th percentile band is [20, 180],
	// so 10, 190 and 200 are trimmed.
	raw := make([]*models.RawListing, 0, 20)
	for i := 1; i <= 20; i++ {
		raw = append(raw, sellApartment(fmt.Sprintf("http://example.com/%d", i), float64(i*10)))
	}

	clean, st := w.Wrangle(raw)
	if len(clean) != 17 {
		t.Fatalf("clean listings: got %d, want 17", len(clean))
	}
	if st.DroppedAreaOutlier != 3 {
		t.Errorf("DroppedAreaOutlier: got %d, want 3", st.DroppedAreaOutlier)
	}
	if st.AreaLow != 20 || st.AreaHigh != 180 {
		t.Errorf("area band: got %.1f–%.1f, want 20–180", st.AreaLow, st.AreaHigh)
	}
	for _, l := range clean {
		if l.SurfaceCovered < 20 || l.SurfaceCovered > 180 {
			t.Errorf("listing with area %.1f survived outside the band", l.SurfaceCovered)
		}
	}
}

func TestWrangleSkipsTrimOnSmallSample(t *testing.T) {
	w := NewWrangler(newTestLogger(), 400000, 10)

	raw := []*models.RawListing{
		sellApartment("http://example.com/1", 5),
		sellApartment("http://example.com/2", 50),
		sellApartment("http://example.com/3", 500),
	}

	clean, st := w.Wrangle(raw)
	if len(clean) != 3 {
		t.Errorf("small samples must not be trimmed: got %d rows, want 3", len(clean))
	}
	if st.DroppedAreaOutlier != 0 || st.AreaLow != 0 || st.AreaHigh != 0 {
		t.Errorf("trim stats should be zero, got %+v", st)
	}
}
