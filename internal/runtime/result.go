package runtime

import "fmt"

// ErrKind classifies why an execution stopped early. The host uses it to
// tell an authoring mistake (missing field) apart from a runaway graph.
type ErrKind string

const (
	ErrNone        ErrKind = ""
	ErrStructure   ErrKind = "structure"
	ErrData        ErrKind = "nodeData"
	ErrUnknownType ErrKind = "unknownType"
	ErrBudget      ErrKind = "budgetExceeded"
)

// Result is the outcome of one execution. Messages emitted before a failure
// are preserved; the engine fail-stops rather than discarding partial output.
type Result struct {
	Success      bool     `json:"success"`
	Messages     []string `json:"messages,omitempty"`
	Signals      []Signal `json:"signals,omitempty"`
	ErrKind      ErrKind  `json:"err_kind,omitempty"`
	ErrorMessage string   `json:"error,omitempty"`
}

// Merge folds another result into this one. Failure dominates; the first
// error is kept.
func (r *Result) Merge(other Result) {
	r.Messages = append(r.Messages, other.Messages...)
	r.Signals = append(r.Signals, other.Signals...)
	if !other.Success {
		r.Success = false
		if r.ErrKind == ErrNone {
			r.ErrKind = other.ErrKind
			r.ErrorMessage = other.ErrorMessage
		}
	}
}

// execError carries a classified failure through traversal.
type execError struct {
	kind ErrKind
	msg  string
}

func (e *execError) Error() string { return e.msg }

func dataErrf(format string, args ...interface{}) *execError {
	return &execError{kind: ErrData, msg: fmt.Sprintf(format, args...)}
}

func unknownTypeErrf(format string, args ...interface{}) *execError {
	return &execError{kind: ErrUnknownType, msg: fmt.Sprintf(format, args...)}
}
