package snapsocket

import "errors"

// Configuration and precondition errors. Per-tick logic never returns errors.
var (
	// ErrInvalidRadius indicates a capture radius that is not positive.
	ErrInvalidRadius = errors.New("snapsocket: radius must be positive")

	// ErrInvalidTolerance indicates an angle tolerance outside [0, 180] degrees.
	ErrInvalidTolerance = errors.New("snapsocket: angle tolerance must be within [0, 180] degrees")

	// ErrInvalidLerpSpeed indicates a negative interpolation speed.
	ErrInvalidLerpSpeed = errors.New("snapsocket: lerp speed must not be negative")

	// ErrNoGrabQuery indicates a socket built before the hands were resolved.
	ErrNoGrabQuery = errors.New("snapsocket: grab query is not resolved")

	// ErrNoScene indicates a socket built without a scene graph.
	ErrNoScene = errors.New("snapsocket: scene graph is nil")

	// ErrHandNotFound indicates a named manipulator missing from the scene.
	ErrHandNotFound = errors.New("snapsocket: hand controller not found")

	// ErrNoDevice indicates no input device matched the requested characteristics.
	ErrNoDevice = errors.New("snapsocket: no matching input device")

	// ErrUnknownObject indicates an object id the scene does not know.
	ErrUnknownObject = errors.New("snapsocket: unknown scene object")

	// ErrNotTintable indicates a candidate without a tintable surface.
	ErrNotTintable = errors.New("snapsocket: object has no tintable surface")

	// ErrInvalidScenario indicates a scenario file that cannot be run.
	ErrInvalidScenario = errors.New("snapsocket: invalid scenario")

	// ErrUnsupportedFormat indicates a gizmo image format other than png or webp.
	ErrUnsupportedFormat = errors.New("snapsocket: unsupported image format")

	// ErrInvalidConfig indicates a configuration value out of range.
	ErrInvalidConfig = errors.New("snapsocket: invalid configuration")
)
