package tags

import "errors"

// Tag validation and parsing errors.
var (
	ErrInvalidValue    = errors.New("invalid tag value")
	ErrUnparseable     = errors.New("unparseable tag")
	ErrUnknownTag      = errors.New("unknown tag")
	ErrIndexOutOfRange = errors.New("tag index out of range")
	ErrInvalidCatalog  = errors.New("invalid tag catalog")
	ErrUnknownGroup    = errors.New("unknown tag group")
	ErrUnknownSort     = errors.New("unknown sort option")
)
