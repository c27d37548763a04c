// Package errs defines the error kinds every repository operation reports.
// A kind is a sentinel matched with errors.Is; the human-readable message
// travels alongside it in *Error.
package errs

import "errors"

var (
	ErrUsage             = errors.New("usage")
	ErrAlreadyExists     = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrUntrackedConflict = errors.New("untracked file conflict")
	ErrAmbiguous         = errors.New("ambiguous")
)

// Messages shared by more than one operation.
const (
	MsgIncorrectOperands = "Incorrect operands."
	MsgNotInitialized    = "Not in an initialized repository."
	MsgUntrackedInTheWay = "There is an untracked file in the way; delete it, or add and commit it first."
	MsgNoSuchCommit      = "No commit with that id exists."
	MsgNoSuchBranch      = "A branch with that name does not exist."
)

// Error is a domain failure: a kind plus the message shown to the user.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

// New builds a domain error of the given kind.
func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// IsDomain reports whether err carries a domain error and returns it.
func IsDomain(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
