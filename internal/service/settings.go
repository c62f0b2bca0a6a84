package service

import (
	"time"

	"github.com/alexanderramin/planops/internal/planrules"
)

// Settings carries the plan knobs shared by the plan, rule and overview services.
type Settings struct {
	DuePolicy       planrules.MonthlyDuePolicy
	BatchSize       int
	ReadConcurrency int
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s Settings) batchSize() int {
	if s.BatchSize < 1 {
		return 500
	}
	return s.BatchSize
}

func (s Settings) readConcurrency() int {
	if s.ReadConcurrency < 1 {
		return 8
	}
	return s.ReadConcurrency
}
