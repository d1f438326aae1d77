package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
)

// AssessmentRepository defines the interface for Assessment data persistence
type AssessmentRepository interface {
	// Create stores a new assessment. An empty ID is generated.
	Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error)

	// Get retrieves an assessment by ID, ErrNotFound if missing
	Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error)

	// List returns up to limit assessments, newest first
	List(ctx context.Context, limit int) ([]*model.Assessment, error)
}
