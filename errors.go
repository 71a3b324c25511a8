package ggez

import "errors"

// Sentinel errors shared by the sub-packages. Wrapped causes are attached
// at the failure site; use errors.Is to classify an error against these.
var (
	// ErrGraphics reports a failure to initialize the graphics context or
	// one of its GPU resources.
	ErrGraphics = errors.New("graphics error")

	// ErrRender reports a failure while recording or submitting a frame.
	ErrRender = errors.New("render error")

	// ErrResourceLoad reports a failure to load or decode a resource.
	ErrResourceLoad = errors.New("resource load error")

	// ErrResourceNotFound reports a lookup of a resource that was never
	// loaded or has been discarded.
	ErrResourceNotFound = errors.New("resource not found")
)
