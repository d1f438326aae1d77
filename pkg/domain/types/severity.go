package types

// Severity of a compliance gap
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// SeverityFromScore maps an area compliance score to gap severity
func SeverityFromScore(score float64) Severity {
	switch {
	case score < 0.3:
		return SeverityHigh
	case score < 0.5:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// Priority of a recommendation
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// String returns the string representation of the priority
func (p Priority) String() string {
	return string(p)
}
