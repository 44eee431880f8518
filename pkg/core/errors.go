package core

import "errors"

// Referential errors. Callers wrap them with the offending name or key
// and match with errors.Is.
var (
	ErrUnknownNode         = errors.New("unknown node")
	ErrUnknownElement      = errors.New("unknown element")
	ErrUnknownSet          = errors.New("unknown set")
	ErrUnknownMaterial     = errors.New("unknown material")
	ErrUnknownSection      = errors.New("unknown section")
	ErrUnknownDisplacement = errors.New("unknown displacement")
	ErrUnknownLoad         = errors.New("unknown load")
	ErrUnknownStep         = errors.New("unknown step")
	ErrUnknownField        = errors.New("unknown field")
	ErrMissingResult       = errors.New("missing result")
	ErrDuplicateName       = errors.New("duplicate name")
	ErrInvalidSet          = errors.New("invalid set")
	ErrEmptyElement        = errors.New("element has no nodes")
)
