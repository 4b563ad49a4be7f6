package host

// WindowID identifies a display surface images are bound to.
type WindowID int64

// Window describes one display surface in terminal cells.
type Window struct {
	ID     WindowID
	Width  int // columns
	Height int // rows
}
