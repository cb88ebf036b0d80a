package fractalpad

// Surface is the presentation target for viewport output. The backend
// package provides implementations and a registry; this interface lives
// here so the core loop can drive any surface without importing them.
//
// The two update paths deliberately differ in cost: Present hands over a
// freshly computed buffer (the heavy path, after a recompute), while
// SetOffset repositions the visible crop inside the buffer already held
// by the surface (the cheap pan path, no reupload).
type Surface interface {
	// Name returns the surface identifier (e.g., "image", "gpu").
	Name() string

	// Init prepares the surface for presentation.
	Init() error

	// Close releases surface resources.
	Close()

	// Present installs a newly rendered buffer and its palette. The
	// surface keeps the references until the next Present; the caller
	// must not mutate the bitmap afterwards except through a viewport
	// recompute (which replaces, never mutates).
	Present(buf *Bitmap, pal Palette) error

	// SetOffset repositions the visible crop to the given top-left
	// buffer coordinate without a buffer swap.
	SetOffset(x, y int) error

	// SetOverlay installs the position indicator bitmap, composited
	// over the view. A nil bitmap removes the overlay.
	SetOverlay(bmp *Bitmap, pal Palette)

	// SetStatus shows a status line over the view; the empty string
	// hides it.
	SetStatus(s string)
}
