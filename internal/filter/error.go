package filter

import "errors"

var (
	// ErrUnknownKey is an error that occurs when a filter key names none of
	// the supported filter kinds.
	ErrUnknownKey = errors.New("unknown filter key")

	// ErrUnknownOperator is an error that occurs when a filter carries an
	// operator token that is not supported.
	ErrUnknownOperator = errors.New("unknown filter operator")

	// ErrTypeOperator is an error that occurs when a type filter is given an
	// operator suffix, which it does not support.
	ErrTypeOperator = errors.New("type filter does not take an operator")

	// ErrEmptyTypeMask is an error that occurs when a type filter admits no
	// entry type at all.
	ErrEmptyTypeMask = errors.New("type filter admits no entries")

	// ErrInvalidValue is an error that occurs when a filter value cannot be
	// interpreted for its filter kind.
	ErrInvalidValue = errors.New("invalid filter value")

	// ErrNilPredicate is an error that occurs when a func filter carries no
	// predicate.
	ErrNilPredicate = errors.New("func filter without predicate")

	// ErrInvalidAssignment is an error that occurs when a textual filter is
	// not of the form key=value.
	ErrInvalidAssignment = errors.New("invalid filter assignment")
)
