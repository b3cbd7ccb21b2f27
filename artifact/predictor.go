package artifact

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"properati-pricer/models"
	"properati-pricer/regression"
)

// Predictor scores single apartments with a loaded artifact.
type Predictor struct {
	art     *Artifact
	enc     *regression.FeatureEncoder
	model   *regression.Ridge
	printer *message.Printer
}

// NewPredictor rebuilds the encoder and model held in the artifact.
func NewPredictor(a *Artifact) *Predictor {
	return &Predictor{
		art:     a,
		enc:     regression.RestoreEncoder(a.Neighborhoods, a.LatMean, a.LonMean),
		model:   regression.RestoreRidge(a.Alpha, a.Coefficients, a.Intercept),
		printer: message.NewPrinter(language.English),
	}
}

// Artifact returns the bundle the predictor was built from.
func (p *Predictor) Artifact() *Artifact {
	return p.art
}

// Predict scores one apartment. NaN coordinates fall back to the training
// means. A neighborhood outside the training vocabulary still gets a price
// from the numeric features alone, flagged through KnownNeighborhood.
func (p *Predictor) Predict(surface, lat, lon float64, neighborhood string) (*models.Prediction, error) {
	if surface <= 0 {
		return nil, fmt.Errorf("artifact: surface must be positive, got %g", surface)
	}

	row := p.enc.Encode(surface, lat, lon, neighborhood)
	price := p.model.PredictOne(row)

	return &models.Prediction{
		SurfaceM2:         surface,
		Lat:               row[1],
		Lon:               row[2],
		Neighborhood:      neighborhood,
		KnownNeighborhood: p.enc.Knows(neighborhood),
		PriceUSD:          price,
		Formatted:         p.printer.Sprintf("Predicted apartment price: $%.2f", price),
	}, nil
}
