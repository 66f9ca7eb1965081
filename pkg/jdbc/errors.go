package jdbc

import (
	"github.com/zeebo/errs"
)

var (
	// ErrMalformedURL indicates that url has no jdbc: prefix or does not match the structure of its kind.
	ErrMalformedURL = errs.Class("malformed url")
	// ErrUnsupportedKind indicates that kind token is not one of the supported kinds.
	ErrUnsupportedKind = errs.Class("unsupported kind")
	// ErrInvalidPort indicates that explicit port is not a number in [1, 65535].
	ErrInvalidPort = errs.Class("invalid port")
	// ErrInvalidName indicates that database name is empty.
	ErrInvalidName = errs.Class("invalid name")
)
