package storage

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"properati-pricer/models"
	"properati-pricer/utils"
)

// PostgresWriter persists cleaned listings and training-run summaries to
// PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := utils.RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, Logger: logger}
	if err := retry.Do("postgres ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id           SERIAL PRIMARY KEY,
			neighborhood TEXT          NOT NULL,
			surface_m2   NUMERIC(10,2) NOT NULL,
			lat          DOUBLE PRECISION,
			lon          DOUBLE PRECISION,
			price_usd    NUMERIC(12,2) NOT NULL,
			url          TEXT          UNIQUE NOT NULL,
			created_at   TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_neighborhood ON listings(neighborhood);
		CREATE INDEX IF NOT EXISTS idx_listings_price        ON listings(price_usd);
		CREATE INDEX IF NOT EXISTS idx_listings_surface      ON listings(surface_m2);

		CREATE TABLE IF NOT EXISTS training_runs (
			run_id        UUID             PRIMARY KEY,
			alpha         DOUBLE PRECISION NOT NULL,
			rows_total    INTEGER          NOT NULL,
			rows_train    INTEGER          NOT NULL,
			rows_test     INTEGER          NOT NULL,
			feature_count INTEGER          NOT NULL,
			baseline_mae  DOUBLE PRECISION NOT NULL,
			train_mae     DOUBLE PRECISION NOT NULL,
			test_mae      DOUBLE PRECISION NOT NULL,
			test_rmse     DOUBLE PRECISION NOT NULL,
			test_r2       DOUBLE PRECISION NOT NULL,
			artifact_path TEXT             NOT NULL DEFAULT '',
			elapsed_ms    BIGINT           NOT NULL,
			created_at    TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

// Clear deletes all stored listings.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM listings")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts the cleaned listings, clearing the previous snapshot
// first.
func (pw *PostgresWriter) Write(listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.Listing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*7)

	for idx, l := range batch {
		base := idx * 7
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		valueArgs = append(valueArgs,
			l.Neighborhood, l.SurfaceCovered, nullableFloat(l.Lat), nullableFloat(l.Lon),
			l.PriceUSD, l.URL, l.CreatedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (neighborhood, surface_m2, lat, lon, price_usd, url, created_at)
		VALUES %s
		ON CONFLICT (url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// WriteRun records a training-run summary.
func (pw *PostgresWriter) WriteRun(report *models.TrainingReport) error {
	_, err := pw.db.Exec(`
		INSERT INTO training_runs (
			run_id, alpha, rows_total, rows_train, rows_test, feature_count,
			baseline_mae, train_mae, test_mae, test_rmse, test_r2,
			artifact_path, elapsed_ms
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		report.RunID, report.Alpha, report.RowsIn, report.RowsTrain, report.RowsTest,
		report.FeatureCount, report.BaselineMAE, report.TrainMAE, report.TestMAE,
		report.TestRMSE, report.TestR2, report.ArtifactPath, report.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("postgres: write run: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored listings, most useful for re-running the
// insight report without the source CSV at hand.
func (pw *PostgresWriter) FetchAll() ([]*models.Listing, error) {
	rows, err := pw.db.Query(`
		SELECT neighborhood, surface_m2, lat, lon, price_usd, url, created_at
		FROM listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l := &models.Listing{}
		var lat, lon sql.NullFloat64
		if err := rows.Scan(
			&l.Neighborhood, &l.SurfaceCovered, &lat, &lon,
			&l.PriceUSD, &l.URL, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		l.Lat, l.Lon = math.NaN(), math.NaN()
		if lat.Valid {
			l.Lat = lat.Float64
		}
		if lon.Valid {
			l.Lon = lon.Float64
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func nullableFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
