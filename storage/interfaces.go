package storage

import "properati-pricer/models"

// ListingWriter is the interface any cleaned-listing sink must satisfy.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}

// RunRecorder persists training-run summaries.
type RunRecorder interface {
	WriteRun(report *models.TrainingReport) error
}
