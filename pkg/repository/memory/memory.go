package memory

import (
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
)

// Memory keeps regulation chunks and assessments in process. It is used for
// development and tests; data is lost on exit.
type Memory struct {
	regulation *regulationRepository
	assessment *assessmentRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		regulation: newRegulationRepository(),
		assessment: newAssessmentRepository(),
	}
}

func (m *Memory) Regulation() interfaces.RegulationRepository {
	return m.regulation
}

func (m *Memory) Assessment() interfaces.AssessmentRepository {
	return m.assessment
}

func (m *Memory) Close() error {
	return nil
}
