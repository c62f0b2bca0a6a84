package domain

type Frequency string

const (
	FrequencyOneTime  Frequency = "One Time"
	FrequencyMonthly  Frequency = "Monthly"
	FrequencyAsNeeded Frequency = "As Needed"
)

// ValidFrequencies is the canonical set of accepted frequency strings.
var ValidFrequencies = map[Frequency]bool{
	FrequencyOneTime:  true,
	FrequencyMonthly:  true,
	FrequencyAsNeeded: true,
}

// Recurring reports whether counters and monthly history apply to the frequency.
func (f Frequency) Recurring() bool {
	return f == FrequencyMonthly || f == FrequencyAsNeeded
}

type Progress string

const (
	ProgressToDo  Progress = "To Do"
	ProgressDoing Progress = "Doing"
	ProgressDone  Progress = "Done"
)

var ValidProgress = map[Progress]bool{
	ProgressToDo:  true,
	ProgressDoing: true,
	ProgressDone:  true,
}

type CustomerType string

const (
	CustomerPaid CustomerType = "Paid"
	CustomerFree CustomerType = "Free"
)

// TaskOrigin distinguishes rule-derived tasks from staff-authored ones.
type TaskOrigin string

const (
	OriginRule   TaskOrigin = "rule"
	OriginCustom TaskOrigin = "custom"
)

const (
	// OtherTasksSection holds every staff-authored task.
	OtherTasksSection = "Other Tasks"

	// DefaultCatalogID is the fallback rule catalog for packages without their own.
	DefaultCatalogID = "default"

	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)
