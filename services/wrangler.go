package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"properati-pricer/models"
	"properati-pricer/utils"
)

const (
	operationSell        = "sell"
	typeApartment        = "apartment"
	targetDistrict       = "Capital Federal"
	fallbackNeighborhood = "Capital Federal"

	// Percentile trimming on fewer rows than this does more harm than good.
	minTrimSample = 10
)

// Wrangler turns RawListings into clean, model-ready Listings: it keeps only
// Capital Federal apartments for sale under the price cap, trims surface-area
// outliers to a percentile band, splits the combined lat-lon column and
// extracts the neighborhood from the place hierarchy.
type Wrangler struct {
	logger      *utils.Logger
	maxPriceUSD float64
	trimPct     float64
}

// NewWrangler creates a Wrangler. maxPriceUSD is the exclusive upper price
// bound; trimPct sets the [trimPct, 100-trimPct] percentile band applied to
// the covered surface.
func NewWrangler(logger *utils.Logger, maxPriceUSD, trimPct float64) *Wrangler {
	return &Wrangler{logger: logger, maxPriceUSD: maxPriceUSD, trimPct: trimPct}
}

// Wrangle processes raw listings and returns cleaned records plus the
// per-reason drop counts. The input slice is never mutated.
func (w *Wrangler) Wrangle(raw []*models.RawListing) ([]*models.Listing, *models.WrangleStats) {
	st := &models.WrangleStats{RowsIn: len(raw)}
	seen := make(map[string]struct{})
	kept := make([]*models.Listing, 0, len(raw))

	for _, r := range raw {
		url := strings.TrimSpace(r.URL)
		if url == "" {
			st.DroppedEmptyURL++
			w.logger.Debug("[wrangler] Dropping listing with empty URL: %s", r.Title)
			continue
		}
		if _, dup := seen[url]; dup {
			st.DroppedDuplicateURL++
			w.logger.Debug("[wrangler] Duplicate URL skipped: %s", url)
			continue
		}
		seen[url] = struct{}{}

		if !strings.EqualFold(strings.TrimSpace(r.Operation), operationSell) {
			st.DroppedOperation++
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(r.PropertyType), typeApartment) {
			st.DroppedPropertyType++
			continue
		}
		if !strings.Contains(r.Place, targetDistrict) {
			st.DroppedLocation++
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(r.PriceUSD), 64)
		if err != nil || price <= 0 || price >= w.maxPriceUSD {
			st.DroppedPrice++
			continue
		}

		area, err := strconv.ParseFloat(strings.TrimSpace(r.SurfaceCovered), 64)
		if err != nil || area <= 0 {
			st.DroppedSurface++
			continue
		}

		lat, lon := parseLatLon(r.LatLon)

		kept = append(kept, &models.Listing{
			Neighborhood:   neighborhoodFromPlace(r.Place),
			SurfaceCovered: area,
			Lat:            lat,
			Lon:            lon,
			PriceUSD:       price,
			URL:            url,
			CreatedAt:      time.Now(),
		})
	}

	kept = w.trimAreaOutliers(kept, st)
	st.RowsKept = len(kept)

	w.logger.Info("[wrangler] Cleaned %d → %d listings (dropped %d)",
		st.RowsIn, st.RowsKept, st.Dropped())
	return kept, st
}

// trimAreaOutliers keeps listings whose covered surface falls inside the
// configured percentile band, inclusive on both ends.
func (w *Wrangler) trimAreaOutliers(listings []*models.Listing, st *models.WrangleStats) []*models.Listing {
	if w.trimPct <= 0 || w.trimPct >= 50 || len(listings) < minTrimSample {
		return listings
	}

	areas := make([]float64, len(listings))
	for i, l := range listings {
		areas[i] = l.SurfaceCovered
	}

	low, err := stats.Percentile(areas, w.trimPct)
	if err != nil {
		w.logger.Warn("[wrangler] Surface percentile failed, skipping trim: %v", err)
		return listings
	}
	high, err := stats.Percentile(areas, 100-w.trimPct)
	if err != nil {
		w.logger.Warn("[wrangler] Surface percentile failed, skipping trim: %v", err)
		return listings
	}

	out := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.SurfaceCovered < low || l.SurfaceCovered > high {
			st.DroppedAreaOutlier++
			continue
		}
		out = append(out, l)
	}
	st.AreaLow, st.AreaHigh = low, high

	w.logger.Info("[wrangler] Surface band %.1f–%.1f m² — trimmed %d outliers",
		low, high, st.DroppedAreaOutlier)
	return out
}

// parseLatLon splits the combined "lat,lon" column. Half a coordinate is
// useless to the model, so any parse failure yields NaN for both.
func parseLatLon(raw string) (float64, float64) {
	nan := math.NaN()
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 2 {
		return nan, nan
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return nan, nan
	}
	return lat, lon
}

// neighborhoodFromPlace extracts the neighborhood segment of a hierarchy
// like "|Argentina|Capital Federal|Palermo|". Rows whose hierarchy stops at
// the federal district fall back to the district name.
func neighborhoodFromPlace(place string) string {
	parts := strings.Split(place, "|")
	if len(parts) > 3 {
		if n := strings.TrimSpace(parts[3]); n != "" {
			return n
		}
	}
	return fallbackNeighborhood
}
