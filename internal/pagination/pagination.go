// Package pagination derives the page-number strip rendered under the
// directory table: plain numbers when the set is small, an elided window
// around the current page when it is not.
package pagination

import "go-staff-console/internal/model"

const windowRadius = 2

// Marker is one slot in the rendered strip: a concrete page number, or an
// ellipsis standing in for a skipped run.
type Marker struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

func page(n int) Marker { return Marker{Page: n} }

var ellipsis = Marker{Ellipsis: true}

// Present returns the ordered marker sequence for the given position. Up to
// seven pages are listed verbatim; beyond that the first and last page are
// always shown and a window of radius two tracks the current page, widened
// away from an edge it abuts so the strip keeps a stable width.
func Present(current int, total int) []Marker {
	if total <= 0 {
		return []Marker{}
	}

	if total <= 7 {
		out := make([]Marker, 0, total)
		for i := 1; i <= total; i++ {
			out = append(out, page(i))
		}
		return out
	}

	out := []Marker{page(1)}

	start := max(2, current-windowRadius)
	end := min(total-1, current+windowRadius)

	if end-start+1 < 2*windowRadius+1 {
		if start == 2 {
			end = min(total-1, start+2*windowRadius)
		} else if end == total-1 {
			start = max(2, end-2*windowRadius)
		}
	}

	if start > 2 {
		out = append(out, ellipsis)
	}
	for i := start; i <= end; i++ {
		out = append(out, page(i))
	}
	if end < total-1 {
		out = append(out, ellipsis)
	}

	return append(out, page(total))
}

// Controls is the enabled state of the previous/next affordances.
type Controls struct {
	PrevEnabled bool `json:"prev_enabled"`
	NextEnabled bool `json:"next_enabled"`
}

func ControlsFor(current int, total int) Controls {
	return Controls{
		PrevEnabled: current > 1,
		NextEnabled: current < total,
	}
}

// ValidatePageChange rejects any request outside [1, total]. Out-of-range
// pages are refused outright, never clamped to the nearest valid one.
func ValidatePageChange(target int, total int) error {
	if total < 1 {
		total = 1
	}

	if target < 1 || target > total {
		return model.ErrPageOutOfRange
	}

	return nil
}
