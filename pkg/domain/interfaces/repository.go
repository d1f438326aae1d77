package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Regulation() RegulationRepository
	Assessment() AssessmentRepository

	Close() error
}
