package util

import "fmt"

// Error kinds returned by the lifecycle, report and export usecases. Every
// rejected operation maps to exactly one of these; the handler layer decides
// presentation.

// MissingItem identifies one required question left unanswered at submit.
type MissingItem struct {
	SectionTitle string `json:"section_title"`
	QuestionText string `json:"question_text"`
}

// ValidationError carries the complete ordered list of offending items.
// Callers truncate for display ("first 15 + N more"); the error never does.
type ValidationError struct {
	Message string
	Items   []MissingItem
}

func (e *ValidationError) Error() string {
	if len(e.Items) > 0 {
		return fmt.Sprintf("%s (%d items)", e.Message, len(e.Items))
	}
	return e.Message
}

// StateError rejects a transition that is illegal for the current status.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }

// AuthorizationError means the actor lacks the capability for the attempted
// action. Surfaced as access denied without detail.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// LockError means the governing period is closed and no valid override was
// supplied.
type LockError struct {
	Message string
}

func (e *LockError) Error() string { return e.Message }

// NotFoundError covers absent or not-visible referenced entities. Surfaced
// the same as AuthorizationError to avoid leaking existence.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// CapacityError rejects an export whose scoped size exceeds the hard cap.
type CapacityError struct {
	Message   string
	ItemCount int
}

func (e *CapacityError) Error() string { return e.Message }
