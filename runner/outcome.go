package runner

// Outcome is the final classification of a test.
type Outcome int

// Possible outcomes. A test is NotRun until the runner has executed it.
const (
	NotRun Outcome = iota
	Passed
	Failed
	FailedAsExpected
	PassedUnexpectedly
	Skipped
)

var outcomeNames = [...]string{
	"NotRun",
	"Passed",
	"Failed",
	"FailedAsExpected",
	"PassedUnexpectedly",
	"Skipped",
}

func (o Outcome) String() string {
	return outcomeNames[o]
}

// IsFailure reports whether the outcome counts against the run.
func (o Outcome) IsFailure() bool {
	return o == Failed || o == PassedUnexpectedly
}

// Label is the tag used in the summary: PASS, FAIL or SKIP.
func (o Outcome) Label() string {
	switch o {
	case Skipped:
		return "SKIP"
	case Failed, PassedUnexpectedly, NotRun:
		return "FAIL"
	default:
		return "PASS"
	}
}
