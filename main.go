package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"properati-pricer/artifact"
	"properati-pricer/config"
	"properati-pricer/dataset"
	"properati-pricer/models"
	"properati-pricer/observability"
	"properati-pricer/regression"
	"properati-pricer/services"
	"properati-pricer/storage"
	"properati-pricer/utils"
	"properati-pricer/widget"
)

var (
	dataPath     string
	artifactPath string
	cleanCSVPath string
	maxPriceUSD  float64
	areaTrimPct  float64
	ridgeAlpha   float64
	testSize     float64
	randomSeed   int64
	storeEnabled bool
	fromDB       bool
	widgetHost   string
	widgetPort   int
	debug        bool

	surfaceM2    float64
	latitude     float64
	longitude    float64
	neighborhood string
)

func main() {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "properati-pricer",
		Short: "Model Buenos Aires apartment sale prices from Properati listings",
	}

	rootCmd.PersistentFlags().StringVar(&dataPath, "data", cfg.DataPath, "Path to the Properati CSV export")
	rootCmd.PersistentFlags().StringVar(&artifactPath, "artifact", cfg.ArtifactPath, "Path of the model artifact")
	rootCmd.PersistentFlags().Float64Var(&maxPriceUSD, "max-price", cfg.MaxPriceUSD, "Drop listings at or above this USD price")
	rootCmd.PersistentFlags().Float64Var(&areaTrimPct, "trim-pct", cfg.AreaTrimPct, "Percentile band trimmed off each surface tail")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", cfg.LogDebug, "Enable debug logging")

	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Clean the dataset, fit the price model, and save the artifact",
		Run:   func(cmd *cobra.Command, args []string) { runTrain(cfg) },
	}
	trainCmd.Flags().Float64Var(&ridgeAlpha, "alpha", cfg.RidgeAlpha, "L2 penalty of the ridge regression")
	trainCmd.Flags().Float64Var(&testSize, "test-size", cfg.TestSize, "Fraction of listings held out for evaluation")
	trainCmd.Flags().Int64Var(&randomSeed, "seed", cfg.RandomSeed, "Seed of the train/test shuffle")
	trainCmd.Flags().StringVar(&cleanCSVPath, "clean-csv", cfg.CleanCSVPath, "Export the cleaned listings as CSV (empty to skip)")
	trainCmd.Flags().BoolVar(&storeEnabled, "store", cfg.StoreEnabled, "Persist cleaned listings and the run summary to PostgreSQL")

	insightsCmd := &cobra.Command{
		Use:   "insights",
		Short: "Clean the dataset and print the market report",
		Run:   func(cmd *cobra.Command, args []string) { runInsights(cfg) },
	}
	insightsCmd.Flags().BoolVar(&fromDB, "from-db", false, "Read the stored snapshot from PostgreSQL instead of the CSV")

	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "Price one apartment with a saved model artifact",
		Run:   func(cmd *cobra.Command, args []string) { runPredict() },
	}
	predictCmd.Flags().Float64Var(&surfaceM2, "surface", 0, "Covered surface in m²")
	predictCmd.Flags().Float64Var(&latitude, "lat", math.NaN(), "Latitude (defaults to the training mean)")
	predictCmd.Flags().Float64Var(&longitude, "lon", math.NaN(), "Longitude (defaults to the training mean)")
	predictCmd.Flags().StringVar(&neighborhood, "neighborhood", "", "Neighborhood name, e.g. Palermo")
	_ = predictCmd.MarkFlagRequired("surface")

	widgetCmd := &cobra.Command{
		Use:   "widget",
		Short: "Serve the interactive prediction page",
		Run:   func(cmd *cobra.Command, args []string) { runWidget() },
	}
	widgetCmd.Flags().StringVar(&widgetHost, "host", cfg.WidgetHost, "Interface to bind")
	widgetCmd.Flags().IntVar(&widgetPort, "port", cfg.WidgetPort, "Port to bind")

	rootCmd.AddCommand(trainCmd, insightsCmd, predictCmd, widgetCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newLogger() *utils.Logger {
	logger := utils.NewLogger()
	if debug {
		logger.EnableDebug()
	}
	return logger
}

// loadCleanListings runs the read + wrangle half of the pipeline.
func loadCleanListings(logger *utils.Logger) []*models.Listing {
	reader := dataset.NewReader(logger)
	raw, err := reader.Read(dataPath)
	if err != nil {
		logger.Error("Failed to read dataset: %v", err)
		os.Exit(1)
	}

	wrangler := services.NewWrangler(logger, maxPriceUSD, areaTrimPct)
	listings, stats := wrangler.Wrangle(raw)
	if len(listings) == 0 {
		logger.Error("All %d rows were dropped during wrangling. Exiting.", stats.RowsIn)
		os.Exit(1)
	}

	return listings
}

func runTrain(cfg *config.Config) {
	logger := newLogger()
	logger.Info("=== Buenos Aires apartment pricer: training ===")

	listings := loadCleanListings(logger)

	trainer := regression.NewTrainer(logger, regression.TrainerOptions{
		Alpha:    ridgeAlpha,
		TestSize: testSize,
		Seed:     randomSeed,
	})
	res, err := trainer.Train(listings)
	if err != nil {
		logger.Error("Training failed: %v", err)
		os.Exit(1)
	}
	res.Report.ArtifactPath = artifactPath

	if err := artifact.Save(artifact.FromResult(res), artifactPath); err != nil {
		logger.Error("Failed to save artifact: %v", err)
		os.Exit(1)
	}
	logger.Info("[train] Model artifact saved to %s", artifactPath)

	if cleanCSVPath != "" {
		csvWriter, err := storage.NewCSVWriter(cleanCSVPath)
		if err != nil {
			logger.Error("Failed to create CSV writer: %v", err)
			os.Exit(1)
		}
		if err := csvWriter.Write(listings); err != nil {
			logger.Error("CSV export failed: %v", err)
		} else {
			logger.Info("[train] Cleaned listings exported to %s", cleanCSVPath)
		}
		_ = csvWriter.Close()
	}

	if storeEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), logger)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			os.Exit(1)
		}
		defer pgWriter.Close()

		if err := pgWriter.Write(listings); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else if err := pgWriter.WriteRun(res.Report); err != nil {
			logger.Error("Failed to record training run: %v", err)
		} else {
			logger.Info("[train] Snapshot and run summary stored in PostgreSQL")
		}
	}

	fmt.Printf("\n  Done. Run %s | test MAE $%.0f (baseline $%.0f) | artifact → %s\n\n",
		res.Report.RunID, res.Report.TestMAE, res.Report.BaselineMAE, artifactPath)
}

func runInsights(cfg *config.Config) {
	logger := newLogger()
	logger.Info("=== Buenos Aires apartment pricer: market insights ===")

	var listings []*models.Listing
	if fromDB {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), logger)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		defer pgWriter.Close()

		listings, err = pgWriter.FetchAll()
		if err != nil {
			logger.Error("Failed to fetch stored listings: %v", err)
			os.Exit(1)
		}
		if len(listings) == 0 {
			logger.Error("No stored listings found. Run `properati-pricer train --store` first.")
			os.Exit(1)
		}
		logger.Info("[insights] Loaded %d listings from PostgreSQL", len(listings))
	} else {
		listings = loadCleanListings(logger)
	}

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(listings)
	insightSvc.Print(report)
}

func runPredict() {
	logger := newLogger()

	art, err := artifact.Load(artifactPath)
	if err != nil {
		logger.Error("Failed to load artifact: %v", err)
		logger.Error("Run `properati-pricer train` first")
		os.Exit(1)
	}

	predictor := artifact.NewPredictor(art)
	pred, err := predictor.Predict(surfaceM2, latitude, longitude, neighborhood)
	if err != nil {
		logger.Error("Prediction failed: %v", err)
		os.Exit(1)
	}

	if neighborhood != "" && !pred.KnownNeighborhood {
		logger.Warn("[predict] Neighborhood %q was not seen during training, pricing from surface and location only", neighborhood)
	}

	fmt.Println(pred.Formatted)
}

func runWidget() {
	logger := newLogger()

	art, err := artifact.Load(artifactPath)
	if err != nil {
		logger.Error("Failed to load artifact: %v", err)
		logger.Error("Run `properati-pricer train` first")
		os.Exit(1)
	}
	logger.Info("[widget] Loaded model %s (trained %s, test MAE $%.0f)",
		art.RunID, art.TrainedAt.Format("2006-01-02"), art.Metrics.TestMAE)

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	server := widget.NewServer(artifact.NewPredictor(art), observability.NewMetrics(), logger, widgetHost, widgetPort)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("Widget server error: %v", err)
			os.Exit(1)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("Widget shutdown error: %v", err)
	}
	logger.Info("[widget] Shutdown complete")
}
