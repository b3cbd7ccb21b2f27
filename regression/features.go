package regression

import (
	"fmt"
	"math"
	"sort"

	"properati-pricer/models"
)

// Numeric columns every design-matrix row starts with, in order.
var numericFeatures = []string{"surface_covered_in_m2", "lat", "lon"}

const neighborhoodPrefix = "neighborhood_"

// FeatureEncoder builds design-matrix rows from cleaned listings: the numeric
// block [surface, lat, lon] followed by a one-hot block over the neighborhood
// vocabulary learned at fit time. NaN coordinates are imputed with the
// column means (mean-strategy imputer).
type FeatureEncoder struct {
	neighborhoods []string
	index         map[string]int
	latMean       float64
	lonMean       float64
	fitted        bool
}

func NewFeatureEncoder() *FeatureEncoder {
	return &FeatureEncoder{}
}

// RestoreEncoder rebuilds a fitted encoder from persisted artifact fields.
func RestoreEncoder(neighborhoods []string, latMean, lonMean float64) *FeatureEncoder {
	e := &FeatureEncoder{
		neighborhoods: append([]string(nil), neighborhoods...),
		index:         make(map[string]int, len(neighborhoods)),
		latMean:       latMean,
		lonMean:       lonMean,
		fitted:        true,
	}
	for i, n := range e.neighborhoods {
		e.index[n] = i
	}
	return e
}

// Fit learns the neighborhood vocabulary (sorted for a deterministic column
// order) and the coordinate imputation means. A dataset with no usable
// coordinates at all leaves the means at 0.
func (e *FeatureEncoder) Fit(listings []*models.Listing) error {
	if len(listings) == 0 {
		return fmt.Errorf("regression: cannot fit encoder on an empty dataset")
	}

	vocab := make(map[string]struct{})
	var latSum, lonSum float64
	var latN, lonN int
	for _, l := range listings {
		if l.Neighborhood != "" {
			vocab[l.Neighborhood] = struct{}{}
		}
		if !math.IsNaN(l.Lat) {
			latSum += l.Lat
			latN++
		}
		if !math.IsNaN(l.Lon) {
			lonSum += l.Lon
			lonN++
		}
	}

	e.neighborhoods = make([]string, 0, len(vocab))
	for n := range vocab {
		e.neighborhoods = append(e.neighborhoods, n)
	}
	sort.Strings(e.neighborhoods)
	e.index = make(map[string]int, len(e.neighborhoods))
	for i, n := range e.neighborhoods {
		e.index[n] = i
	}

	e.latMean, e.lonMean = 0, 0
	if latN > 0 {
		e.latMean = latSum / float64(latN)
	}
	if lonN > 0 {
		e.lonMean = lonSum / float64(lonN)
	}
	e.fitted = true
	return nil
}

// Transform builds the design matrix for listings. Fit must have run.
func (e *FeatureEncoder) Transform(listings []*models.Listing) ([][]float64, error) {
	if !e.fitted {
		return nil, fmt.Errorf("regression: encoder used before Fit")
	}
	X := make([][]float64, len(listings))
	for i, l := range listings {
		X[i] = e.Encode(l.SurfaceCovered, l.Lat, l.Lon, l.Neighborhood)
	}
	return X, nil
}

// Encode builds a single design-matrix row. NaN coordinates take the learned
// means; an unknown neighborhood leaves the one-hot block all zero.
func (e *FeatureEncoder) Encode(surface, lat, lon float64, neighborhood string) []float64 {
	row := make([]float64, len(numericFeatures)+len(e.neighborhoods))
	if math.IsNaN(lat) {
		lat = e.latMean
	}
	if math.IsNaN(lon) {
		lon = e.lonMean
	}
	row[0] = surface
	row[1] = lat
	row[2] = lon
	if j, ok := e.index[neighborhood]; ok {
		row[len(numericFeatures)+j] = 1
	}
	return row
}

// Knows reports whether the neighborhood was in the training vocabulary.
func (e *FeatureEncoder) Knows(neighborhood string) bool {
	_, ok := e.index[neighborhood]
	return ok
}

// FeatureNames returns the design-matrix column names in order.
func (e *FeatureEncoder) FeatureNames() []string {
	names := make([]string, 0, len(numericFeatures)+len(e.neighborhoods))
	names = append(names, numericFeatures...)
	for _, n := range e.neighborhoods {
		names = append(names, neighborhoodPrefix+n)
	}
	return names
}

// Neighborhoods returns the learned vocabulary, sorted.
func (e *FeatureEncoder) Neighborhoods() []string {
	return append([]string(nil), e.neighborhoods...)
}

// CoordinateMeans returns the lat/lon imputation means.
func (e *FeatureEncoder) CoordinateMeans() (lat, lon float64) {
	return e.latMean, e.lonMean
}
