package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"properati-pricer/models"
	"properati-pricer/utils"
)

// Column names of a Properati export that the pipeline reads.
const (
	colOperation      = "operation"
	colPropertyType   = "property_type"
	colPlace          = "place_with_parent_names"
	colCountry        = "country_name"
	colState          = "state_name"
	colLatLon         = "lat-lon"
	colPrice          = "price"
	colCurrency       = "currency"
	colPriceUSD       = "price_aprox_usd"
	colSurfaceTotal   = "surface_total_in_m2"
	colSurfaceCovered = "surface_covered_in_m2"
	colPricePerM2USD  = "price_usd_per_m2"
	colFloor          = "floor"
	colRooms          = "rooms"
	colExpenses       = "expenses"
	colURL            = "properati_url"
	colTitle          = "title"
)

// requiredColumns must appear in the header; the rest are optional.
var requiredColumns = []string{
	colOperation,
	colPropertyType,
	colPlace,
	colPriceUSD,
	colSurfaceCovered,
	colLatLon,
	colURL,
}

// Reader loads Properati CSV exports into RawListings.
type Reader struct {
	logger *utils.Logger
}

// NewReader creates a Reader with the given logger.
func NewReader(logger *utils.Logger) *Reader {
	return &Reader{logger: logger}
}

// Read opens and parses the CSV file at path.
func (r *Reader) Read(path string) ([]*models.RawListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %q: %w", path, err)
	}
	defer f.Close()

	listings, err := r.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %q: %w", path, err)
	}
	return listings, nil
}

// ReadFrom parses CSV data from src. The first row must be a header naming
// at least the required Properati columns; column order does not matter.
// Rows that fail to parse are skipped with a warning instead of aborting
// the whole load.
func (r *Reader) ReadFrom(src io.Reader) ([]*models.RawListing, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("dataset: missing required column %q", col)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var listings []*models.RawListing
	row := 1
	skipped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			skipped++
			r.logger.Debug("[dataset] Skipping malformed row %d: %v", row, err)
			continue
		}
		if field(rec, colURL) == "" && field(rec, colPriceUSD) == "" {
			// Blank filler rows show up in hand-edited exports.
			skipped++
			continue
		}

		listings = append(listings, &models.RawListing{
			Operation:      field(rec, colOperation),
			PropertyType:   field(rec, colPropertyType),
			Place:          field(rec, colPlace),
			CountryName:    field(rec, colCountry),
			StateName:      field(rec, colState),
			LatLon:         field(rec, colLatLon),
			Price:          field(rec, colPrice),
			Currency:       field(rec, colCurrency),
			PriceUSD:       field(rec, colPriceUSD),
			SurfaceTotal:   field(rec, colSurfaceTotal),
			SurfaceCovered: field(rec, colSurfaceCovered),
			PricePerM2USD:  field(rec, colPricePerM2USD),
			Floor:          field(rec, colFloor),
			Rooms:          field(rec, colRooms),
			Expenses:       field(rec, colExpenses),
			URL:            field(rec, colURL),
			Title:          field(rec, colTitle),
		})
	}

	if skipped > 0 {
		r.logger.Warn("[dataset] Skipped %d unusable rows", skipped)
	}
	r.logger.Info("[dataset] Loaded %d raw listings", len(listings))
	return listings, nil
}
