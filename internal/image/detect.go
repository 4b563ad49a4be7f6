package image

import (
	"io"
	"os"
	"strings"
)

// Detect picks a graphics backend for the current terminal based on
// environment hints, writing escapes to w. Returns ErrNoBackend when
// neither protocol is advertised.
func Detect(w io.Writer) (Backend, error) {
	term := os.Getenv("TERM")
	program := os.Getenv("TERM_PROGRAM")

	switch {
	case os.Getenv("KITTY_WINDOW_ID") != "" || strings.Contains(term, "kitty"):
		return NewKitty(w), nil
	case strings.Contains(term, "ghostty") || program == "ghostty":
		// Ghostty implements the kitty graphics protocol.
		return NewKitty(w), nil
	case program == "iTerm.app" || program == "WezTerm":
		return NewITerm(w), nil
	default:
		return nil, ErrNoBackend
	}
}
