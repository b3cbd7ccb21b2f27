package regression

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"properati-pricer/models"
	"properati-pricer/utils"
)

// TrainerOptions control a training run.
type TrainerOptions struct {
	Alpha    float64
	TestSize float64
	Seed     int64
}

// Trainer fits the price model end to end: split, encode features, fit the
// ridge, evaluate against the mean-price baseline.
type Trainer struct {
	logger *utils.Logger
	opts   TrainerOptions
}

func NewTrainer(logger *utils.Logger, opts TrainerOptions) *Trainer {
	return &Trainer{logger: logger, opts: opts}
}

// Result bundles everything a training run produces.
type Result struct {
	Encoder *FeatureEncoder
	Model   *Ridge
	Report  *models.TrainingReport

	// Observed surface range, used to bound the widget slider.
	AreaMin float64
	AreaMax float64
}

// Train fits a model on the cleaned listings and reports its metrics.
func (t *Trainer) Train(listings []*models.Listing) (*Result, error) {
	if len(listings) == 0 {
		return nil, fmt.Errorf("regression: no listings to train on")
	}
	start := time.Now()

	train, test := TrainTestSplit(listings, t.opts.TestSize, t.opts.Seed)
	t.logger.Info("[trainer] Split %d listings into %d train / %d test", len(listings), len(train), len(test))

	enc := NewFeatureEncoder()
	if err := enc.Fit(train); err != nil {
		return nil, err
	}
	if lat, lon := enc.CoordinateMeans(); lat == 0 && lon == 0 {
		t.logger.Warn("[trainer] No usable coordinates in training data, imputing lat/lon with 0")
	}

	XTrain, err := enc.Transform(train)
	if err != nil {
		return nil, err
	}
	yTrain := targets(train)

	model := NewRidge(t.opts.Alpha)
	if err := model.Fit(XTrain, yTrain); err != nil {
		return nil, err
	}

	predTrain, err := model.Predict(XTrain)
	if err != nil {
		return nil, err
	}
	baseline := BaselineMAE(yTrain)
	trainMAE := MAE(yTrain, predTrain)

	testMAE, testRMSE, testR2 := trainMAE, RMSE(yTrain, predTrain), R2(yTrain, predTrain)
	if len(test) > 0 {
		XTest, err := enc.Transform(test)
		if err != nil {
			return nil, err
		}
		yTest := targets(test)
		predTest, err := model.Predict(XTest)
		if err != nil {
			return nil, err
		}
		testMAE = MAE(yTest, predTest)
		testRMSE = RMSE(yTest, predTest)
		testR2 = R2(yTest, predTest)
	} else {
		t.logger.Warn("[trainer] Test split is empty, reporting training metrics instead")
	}

	areaMin, areaMax := surfaceRange(listings)

	report := &models.TrainingReport{
		RunID:        uuid.NewString(),
		Alpha:        t.opts.Alpha,
		RowsIn:       len(listings),
		RowsTrain:    len(train),
		RowsTest:     len(test),
		FeatureCount: len(enc.FeatureNames()),
		BaselineMAE:  baseline,
		TrainMAE:     trainMAE,
		TestMAE:      testMAE,
		TestRMSE:     testRMSE,
		TestR2:       testR2,
		Elapsed:      time.Since(start),
	}

	t.logger.Info("[trainer] Baseline MAE $%.2f | Train MAE $%.2f | Test MAE $%.2f | R2 %.3f",
		baseline, trainMAE, testMAE, testR2)
	if trainMAE >= baseline {
		t.logger.Warn("[trainer] Model does not beat the mean-price baseline, check the input data")
	}

	return &Result{
		Encoder: enc,
		Model:   model,
		Report:  report,
		AreaMin: areaMin,
		AreaMax: areaMax,
	}, nil
}

func targets(listings []*models.Listing) []float64 {
	y := make([]float64, len(listings))
	for i, l := range listings {
		y[i] = l.PriceUSD
	}
	return y
}

func surfaceRange(listings []*models.Listing) (min, max float64) {
	min, max = listings[0].SurfaceCovered, listings[0].SurfaceCovered
	for _, l := range listings[1:] {
		if l.SurfaceCovered < min {
			min = l.SurfaceCovered
		}
		if l.SurfaceCovered > max {
			max = l.SurfaceCovered
		}
	}
	return min, max
}
