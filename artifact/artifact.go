package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"properati-pricer/regression"
)

// SchemaVersion guards against loading bundles written by an incompatible
// build. Bump it whenever the serialized layout changes.
const SchemaVersion = 1

// Artifact is the model bundle written after a training run: everything a
// later process needs to score apartments without retraining.
type Artifact struct {
	SchemaVersion int       `json:"schema_version"`
	RunID         string    `json:"run_id"`
	TrainedAt     time.Time `json:"trained_at"`
	Alpha         float64   `json:"alpha"`

	FeatureNames  []string  `json:"feature_names"`
	Coefficients  []float64 `json:"coefficients"`
	Intercept     float64   `json:"intercept"`
	Neighborhoods []string  `json:"neighborhoods"`
	LatMean       float64   `json:"lat_mean"`
	LonMean       float64   `json:"lon_mean"`

	// Observed covered-surface range, in m². Bounds the widget slider.
	AreaMin float64 `json:"area_min_m2"`
	AreaMax float64 `json:"area_max_m2"`

	Metrics Metrics `json:"metrics"`
	Rows    Rows    `json:"rows"`
}

// Metrics carries the evaluation numbers of the run that produced the
// artifact.
type Metrics struct {
	BaselineMAE float64 `json:"baseline_mae"`
	TrainMAE    float64 `json:"train_mae"`
	TestMAE     float64 `json:"test_mae"`
	TestRMSE    float64 `json:"test_rmse"`
	TestR2      float64 `json:"test_r2"`
}

// Rows records how many listings fed the run.
type Rows struct {
	Total int `json:"total"`
	Train int `json:"train"`
	Test  int `json:"test"`
}

// FromResult packages a finished training run into an artifact.
func FromResult(res *regression.Result) *Artifact {
	lat, lon := res.Encoder.CoordinateMeans()
	return &Artifact{
		SchemaVersion: SchemaVersion,
		RunID:         res.Report.RunID,
		TrainedAt:     time.Now().UTC(),
		Alpha:         res.Report.Alpha,
		FeatureNames:  res.Encoder.FeatureNames(),
		Coefficients:  res.Model.Coefficients(),
		Intercept:     res.Model.Intercept(),
		Neighborhoods: res.Encoder.Neighborhoods(),
		LatMean:       lat,
		LonMean:       lon,
		AreaMin:       res.AreaMin,
		AreaMax:       res.AreaMax,
		Metrics: Metrics{
			BaselineMAE: res.Report.BaselineMAE,
			TrainMAE:    res.Report.TrainMAE,
			TestMAE:     res.Report.TestMAE,
			TestRMSE:    res.Report.TestRMSE,
			TestR2:      res.Report.TestR2,
		},
		Rows: Rows{
			Total: res.Report.RowsIn,
			Train: res.Report.RowsTrain,
			Test:  res.Report.RowsTest,
		},
	}
}

// Save writes the artifact as indented JSON, creating parent directories as
// needed.
func Save(a *Artifact, path string) error {
	if err := a.validate(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("artifact: create directory %q: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("artifact: write %q: %w", path, err)
	}
	return nil
}

// Load reads an artifact from disk and validates it before returning.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: read %q: %w", path, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("artifact: decode %q: %w", path, err)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *Artifact) validate() error {
	if a.SchemaVersion != SchemaVersion {
		return fmt.Errorf("artifact: schema version %d, this build expects %d", a.SchemaVersion, SchemaVersion)
	}
	if len(a.FeatureNames) == 0 {
		return fmt.Errorf("artifact: no feature names")
	}
	if len(a.Coefficients) != len(a.FeatureNames) {
		return fmt.Errorf("artifact: %d coefficients for %d features", len(a.Coefficients), len(a.FeatureNames))
	}
	if a.AreaMin > a.AreaMax {
		return fmt.Errorf("artifact: invalid surface range [%g, %g]", a.AreaMin, a.AreaMax)
	}
	return nil
}
