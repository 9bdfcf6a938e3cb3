package seatmap

import (
	"strconv"

	"github.com/mereapp/merechat/internal/view"
)

// DefaultSeatRadius is the rendered seat circle radius in document units.
const DefaultSeatRadius = 9.0

// RenderSVG renders the layout as an SVG document through the given camera.
// selection may be nil. Like the message renderer, this is pure: seat state
// lives in the layout and selection, never in the output tree.
func RenderSVG(l *Layout, cam *Camera, sel *Selection) *view.Node {
	vb := ViewBox{W: l.Width, H: l.Height}
	if cam != nil {
		vb = cam.ViewBox()
	}

	children := []*view.Node{}
	if l.Stage != nil {
		children = append(children,
			rect(l.Stage.X-l.Stage.Width/2, l.Stage.Y, l.Stage.Width, l.Stage.Height, map[string]string{
				"rx": fnum(l.Stage.RX), "fill": "#111", "opacity": "0.08",
			}),
			view.Elem("text", map[string]string{
				"x": fnum(l.Stage.X), "y": fnum(l.Stage.Y + l.Stage.Height*0.75),
				"text-anchor": "middle", "font-size": "14", "fill": "#333",
			}, view.Text("STAGE")),
		)
	}
	if l.Screen != nil {
		children = append(children,
			rect(l.Screen.X-l.Screen.Width/2, l.Screen.Y, l.Screen.Width, l.Screen.Height, map[string]string{
				"fill": "#444", "opacity": "0.15",
			}))
	}
	for _, c := range l.Cranes {
		children = append(children, rect(c.X, c.Y, c.Width, c.Height, map[string]string{
			"fill": "#666", "opacity": "0.3",
		}))
	}
	for _, e := range l.Entries {
		children = append(children, rect(e.X, e.Y, e.Width, e.Height, map[string]string{
			"fill": "#2ecc71",
		}))
	}
	for _, w := range l.Walkways {
		children = append(children, view.Elem("line", map[string]string{
			"x1": fnum(w.X1), "y1": fnum(w.Y1), "x2": fnum(w.X2), "y2": fnum(w.Y2),
			"stroke": "#ccc", "stroke-width": "20", "stroke-linecap": "round",
		}))
	}
	children = append(children, renderSeats(l, sel))

	return view.Elem("svg", map[string]string{
		"xmlns":               "http://www.w3.org/2000/svg",
		"width":               "100%",
		"viewBox":             vb.String(),
		"preserveAspectRatio": "xMidYMid meet",
	}, view.Elem("g", map[string]string{"class": "seating-root"}, children...))
}

func renderSeats(l *Layout, sel *Selection) *view.Node {
	var seats []*view.Node
	for _, sec := range l.Sections {
		for _, row := range sec.Rows {
			for _, seat := range row.Seats {
				seats = append(seats, renderSeat(seat, l.PriceRanges, sel))
			}
		}
	}
	return view.Elem("g", map[string]string{"class": "seats-container"}, seats...)
}

func renderSeat(seat Seat, ranges []PriceRange, sel *Selection) *view.Node {
	selected := sel != nil && sel.Selected(seat.ID)

	class := ""
	switch {
	case selected:
		class = "seat-selected"
	case seat.Status == StatusSold:
		class = "seat-sold"
	case seat.Obstructed:
		class = "seat-obstructed"
	}

	attrs := map[string]string{
		"data-seat-id": seat.ID,
		"transform":    "translate(" + fnum(seat.CX) + ", " + fnum(seat.CY) + ")",
	}
	if class != "" {
		attrs["class"] = class
	}

	cursor := "pointer"
	if seat.Status == StatusSold {
		cursor = "not-allowed"
	}
	fill := SeatColor(seat, ranges)
	stroke := "#fff"
	if selected {
		fill = "#e74c3c"
	}

	return view.Elem("g", attrs,
		view.Elem("circle", map[string]string{
			"r": fnum(DefaultSeatRadius), "cx": "0", "cy": "0",
			"fill": fill, "stroke": stroke, "stroke-width": "1.25",
			"cursor": cursor,
		}),
		view.Elem("text", map[string]string{
			"y": "4", "text-anchor": "middle",
			"font-size": strconv.Itoa(int(DefaultSeatRadius) - 1), "fill": "#fff",
		}, view.Text(seat.Label)),
	)
}

func rect(x, y, w, h float64, extra map[string]string) *view.Node {
	attrs := map[string]string{
		"x": fnum(x), "y": fnum(y), "width": fnum(w), "height": fnum(h),
	}
	for k, v := range extra {
		attrs[k] = v
	}
	return view.Elem("rect", attrs)
}
