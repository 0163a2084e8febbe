package chain

import (
	"errors"
	"fmt"
)

// Business-rule failures. All are deterministic data violations; none is
// worth retrying.
var (
	// ErrInvalidWorkflowTransition is returned when the source/target type
	// pairing is not quotation→invoice or invoice→receipt.
	ErrInvalidWorkflowTransition = errors.New("invalid workflow transition")

	// ErrPreconditionNotMet is returned when a target-specific gate fails,
	// e.g. issuing a receipt from an unpaid invoice.
	ErrPreconditionNotMet = errors.New("precondition not met")

	// ErrDuplicateLink is returned when a real (non-pending) child of the
	// requested type already exists on the source document.
	ErrDuplicateLink = errors.New("linked document already exists")

	// ErrInvalidTaxConfig is returned when a tax rate would produce a
	// non-finite or negative gross amount in gross-up mode.
	ErrInvalidTaxConfig = errors.New("invalid tax configuration")

	// ErrDocumentNotFound is returned when an operation references an id
	// absent from the supplied pool.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrChainIntegrity is returned when traversed documents disagree
	// irreconcilably about which chain they belong to.
	ErrChainIntegrity = errors.New("chain integrity violation")
)

// RuleError wraps a sentinel with human-readable details.
type RuleError struct {
	Err     error
	Details string
}

func (e *RuleError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

func ruleErr(sentinel error, format string, args ...any) error {
	return &RuleError{Err: sentinel, Details: fmt.Sprintf(format, args...)}
}
