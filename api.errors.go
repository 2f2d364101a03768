package main

import "errors"

// BusinessError represents a violation of a domain rule. It is always
// recovered at the resource layer and rendered as a client error.
type BusinessError string

func (e BusinessError) Error() string { return string(e) }

// Business rules violations. The messages are part of the wire contract.
const (
	ErrISBNAlreadyExists = BusinessError("Isbn já cadastrado.")
	ErrBookAlreadyLoaned = BusinessError("Book already loaned")
	ErrBookNotFoundISBN  = BusinessError("Book not found for passed isbn")
)

// ErrMissingID flags an update or delete called on an entity without a
// stored id. Resource handlers always load the entity first, so hitting
// this error means a caller of the service layer broke its contract.
var ErrMissingID = errors.New("entity id can't be zero")

// IsBusinessError reports whether err is a domain rule violation.
func IsBusinessError(err error) bool {
	var be BusinessError
	return errors.As(err, &be)
}
