package minimap

import "errors"

var (
	// ErrInvalidArgument marks contract violations such as an unknown edge side.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoActiveTarget means there is no surface to operate on.
	ErrNoActiveTarget = errors.New("no active minimap surface")

	// ErrEmptyContent means the diagram has no nodes to project.
	ErrEmptyContent = errors.New("nothing to render")
)
