// Package doctor runs health checks over a spawn-layer project.
package doctor

// Status classifies a check outcome.
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusFail
)

// Result is one check outcome. Recommendation is empty when the check
// passed or no remediation applies.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}
