package settings

import "errors"

var (
	// ErrInvalidID indicates a blank or missing node identifier.
	ErrInvalidID = errors.New("settings: id must not be empty")
	// ErrNilChild indicates a multi-bind attachment received a nil child.
	ErrNilChild = errors.New("settings: child must not be nil")
	// ErrInvalidCollectionID indicates AttachTo received a blank target.
	ErrInvalidCollectionID = errors.New("settings: collection id must not be empty")
	// ErrMissingKey indicates a default table does not contain a requested
	// path segment. Unlike a store miss, this is a misconfiguration and
	// propagates out of lens reads.
	ErrMissingKey = errors.New("settings: default table missing key")
)
