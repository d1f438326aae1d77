package types

import "github.com/m-mizutani/goerr/v2"

// ProhibitedPractice tags a prohibited indicator with the Article 5 practice
// it is evidence of. Empty means the indicator is not tied to a practice.
type ProhibitedPractice string

const (
	PracticeSocialScoring ProhibitedPractice = "social_scoring"
	PracticeManipulation  ProhibitedPractice = "manipulation"
)

// Validate checks if the practice is empty or known
func (p ProhibitedPractice) Validate() error {
	switch p {
	case "", PracticeSocialScoring, PracticeManipulation:
		return nil
	}
	return goerr.New("invalid prohibited practice", goerr.V("practice", string(p)))
}

// String returns the string representation of the practice
func (p ProhibitedPractice) String() string {
	return string(p)
}
