package runner

import (
	"fmt"
	"io"
)

// Summary is the outcome of a whole run.
type Summary struct {
	Results  []Result
	Total    int
	Failures int
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	s.Total++

	if r.Outcome.IsFailure() {
		s.Failures++
	}
}

// Passed reports whether no test failed.
func (s *Summary) Passed() bool {
	return s.Failures == 0
}

// WriteTo prints one line per test and a final verdict, either
// "k/n tests failed" or "All n tests passed".
func (s *Summary) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, r := range s.Results {
		n, err := fmt.Fprintf(w, "%s\t%s\t%s\n",
			r.Outcome.Label(), r.Name, message(r))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	n, err := fmt.Fprintln(w, s.verdict())
	total += int64(n)

	return total, err
}

func (s *Summary) verdict() string {
	if s.Passed() {
		return fmt.Sprintf("All %d tests passed", s.Total)
	}

	return fmt.Sprintf("%d/%d tests failed", s.Failures, s.Total)
}

func message(r Result) string {
	if r.Outcome == FailedAsExpected {
		return "failed as expected: " + r.FailureMessage
	}

	return r.FailureMessage
}
