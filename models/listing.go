package models

import (
	"math"
	"time"
)

// RawListing holds one unprocessed row from a Properati CSV export.
// Every field stays a string so the wrangler decides what is usable;
// names mirror the export's columns.
type RawListing struct {
	Operation      string // "sell" / "rent"
	PropertyType   string // "apartment", "house", "PH", "store"
	Place          string // pipe-separated hierarchy: "|Argentina|Capital Federal|Palermo|"
	CountryName    string
	StateName      string
	LatLon         string // combined "lat,lon" column
	Price          string // price in the listing currency
	Currency       string
	PriceUSD       string // price_aprox_usd
	SurfaceTotal   string // surface_total_in_m2
	SurfaceCovered string // surface_covered_in_m2
	PricePerM2USD  string // price_usd_per_m2
	Floor          string
	Rooms          string
	Expenses       string
	URL            string // properati_url
	Title          string
}

// Listing is the cleaned, analysis-ready record. Lat/Lon stay NaN when the
// source row had no usable coordinates; the feature encoder imputes them.
type Listing struct {
	Neighborhood   string
	SurfaceCovered float64
	Lat            float64
	Lon            float64
	PriceUSD       float64
	URL            string
	CreatedAt      time.Time
}

// HasCoordinates reports whether both Lat and Lon carry real values.
func (l *Listing) HasCoordinates() bool {
	return !math.IsNaN(l.Lat) && !math.IsNaN(l.Lon)
}

// PricePerM2 returns the USD price per covered square meter, or 0 when the
// surface is unknown.
func (l *Listing) PricePerM2() float64 {
	if l.SurfaceCovered <= 0 {
		return 0
	}
	return l.PriceUSD / l.SurfaceCovered
}

// WrangleStats counts what the wrangler dropped, and why.
type WrangleStats struct {
	RowsIn              int
	RowsKept            int
	DroppedEmptyURL     int
	DroppedDuplicateURL int
	DroppedOperation    int
	DroppedPropertyType int
	DroppedLocation     int
	DroppedPrice        int
	DroppedSurface      int
	DroppedAreaOutlier  int

	// Percentile band applied to the covered surface, in m².
	// Both are 0 when trimming was skipped.
	AreaLow  float64
	AreaHigh float64
}

// Dropped returns the total number of rows removed during wrangling.
func (s *WrangleStats) Dropped() int {
	return s.RowsIn - s.RowsKept
}

// NeighborhoodStat aggregates the cleaned listings of one neighborhood.
type NeighborhoodStat struct {
	Name         string
	Listings     int
	MeanPriceUSD float64
}

// InsightReport holds the computed analytics over the cleaned dataset.
type InsightReport struct {
	TotalListings    int
	Neighborhoods    int
	MeanPriceUSD     float64
	MedianPriceUSD   float64
	MinPriceUSD      float64
	MaxPriceUSD      float64
	MeanPricePerM2   float64
	AreaPriceCorr    float64
	MostExpensive    *Listing
	TopNeighborhoods []NeighborhoodStat
	ByNeighborhood   map[string]int
}

// TrainingReport summarizes a single training run.
type TrainingReport struct {
	RunID        string
	Alpha        float64
	RowsIn       int
	RowsTrain    int
	RowsTest     int
	FeatureCount int
	BaselineMAE  float64
	TrainMAE     float64
	TestMAE      float64
	TestRMSE     float64
	TestR2       float64
	Elapsed      time.Duration
	ArtifactPath string
}

// Prediction is one scored query plus its display string.
type Prediction struct {
	SurfaceM2         float64
	Lat               float64
	Lon               float64
	Neighborhood      string
	KnownNeighborhood bool
	PriceUSD          float64
	Formatted         string
}
