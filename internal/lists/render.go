package lists

import (
	"fmt"
	"io"

	"github.com/karupanerura/item-service/dispatch"
)

// Render writes the result of a list load.
// A failure is written distinctly from an empty list.
func Render(w io.Writer, title string, r dispatch.Result) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if r.Err != nil {
		_, err := fmt.Fprintf(w, "  ! failed to load: %v\n", r.Err)
		return err
	}
	if len(r.Items) == 0 {
		_, err := fmt.Fprintln(w, "  (no items)")
		return err
	}
	for i, item := range r.Items {
		if _, err := fmt.Fprintf(w, "  %d. %s\n     %s\n", i+1, item.Title, item.Subtitle); err != nil {
			return err
		}
	}
	return nil
}

// Title returns the display title of the list.
func Title(name string) string {
	switch name {
	case Friends:
		return "Friends"
	case Sent:
		return "Sent transfers"
	case Received:
		return "Received transfers"
	case Cards:
		return "Cards"
	default:
		return name
	}
}
