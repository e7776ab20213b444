package storage

import "positionScope/internal/model"

// Sink persists finished analysis results.
type Sink interface {
	PutResult(result model.AnalysisResult) error
}
