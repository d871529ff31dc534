package domain

import "errors"

var (
	ErrEmptyHistory    = errors.New("no usable entries in the user's anime list")
	ErrNoCandidates    = errors.New("no recommendation candidates found")
	ErrSessionNotFound = errors.New("session not found")
)

// CatalogError wraps a transport or query failure while talking to the
// remote catalog. It is terminal for the current session pass.
type CatalogError struct {
	Op  string
	Err error
}

func (e *CatalogError) Error() string {
	return "catalog " + e.Op + ": " + e.Err.Error()
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

func IsCatalogError(err error) bool {
	var target *CatalogError
	return errors.As(err, &target)
}
