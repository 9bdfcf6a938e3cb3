// Package seatmap implements the event-ticketing seating map: the venue
// model, seat selection with its cap and sold-seat rules, batch reservation,
// and the zoomable camera over the rendered map.
package seatmap

// Seat statuses. Sold is terminal on the client: a seat never transitions
// back to available, only a full map reload could.
const (
	StatusAvailable = "available"
	StatusSold      = "sold"
)

// Seat is one selectable place. CX/CY are document coordinates in the
// layout's own unit space.
type Seat struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Price      int     `json:"price"`
	Status     string  `json:"status"`
	Obstructed bool    `json:"obstructed"`
	CX         float64 `json:"cx"`
	CY         float64 `json:"cy"`
	Currency   string  `json:"currency,omitempty"`
}

// Row groups seats along one arc.
type Row struct {
	ID    string `json:"id"` // Excel-style label: A, B, ... Z, AA, AB
	Index int    `json:"index"`
	Seats []Seat `json:"seats"`
}

// Section is a wedge of rows.
type Section struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

// Rect is an axis-aligned structure (stage, screen, crane, entry). X is the
// horizontal center for stage and screen, the left edge for everything else,
// matching how each is drawn.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	RX     float64 `json:"rx,omitempty"`
}

// Line is a walkway segment.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Layout is the full venue document.
type Layout struct {
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Sections    []Section    `json:"sections"`
	PriceRanges []PriceRange `json:"priceRanges"`
	Currency    string       `json:"currency"`
	Stage       *Rect        `json:"stage,omitempty"`
	Screen      *Rect        `json:"screen,omitempty"`
	Cranes      []Rect       `json:"cranes,omitempty"`
	Entries     []Rect       `json:"entries,omitempty"`
	Walkways    []Line       `json:"walkways,omitempty"`
}

// FindSeat returns pointers into the layout for the seat with the given id,
// with its row and section, or nils when absent.
func (l *Layout) FindSeat(id string) (*Seat, *Row, *Section) {
	for si := range l.Sections {
		sec := &l.Sections[si]
		for ri := range sec.Rows {
			row := &sec.Rows[ri]
			for i := range row.Seats {
				if row.Seats[i].ID == id {
					return &row.Seats[i], row, sec
				}
			}
		}
	}
	return nil, nil, nil
}

// SeatCount returns the total number of seats.
func (l *Layout) SeatCount() int {
	n := 0
	for _, sec := range l.Sections {
		for _, row := range sec.Rows {
			n += len(row.Seats)
		}
	}
	return n
}

// PriceRange maps a price band to a fill color.
type PriceRange struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Color string `json:"color"`
}

// DefaultPriceRanges is the platform's standard price legend.
var DefaultPriceRanges = []PriceRange{
	{Min: 0, Max: 49, Color: "#7fb3d5"},
	{Min: 50, Max: 99, Color: "#5dade2"},
	{Min: 100, Max: 199, Color: "#f7dc6f"},
	{Min: 200, Max: 99999, Color: "#f39c12"},
}

// PriceColor resolves a price to its band color; out-of-band prices take the
// last band's color.
func PriceColor(price int, ranges []PriceRange) string {
	if len(ranges) == 0 {
		return "#888"
	}
	for _, r := range ranges {
		if price >= r.Min && price <= r.Max {
			return r.Color
		}
	}
	return ranges[len(ranges)-1].Color
}

// SeatColor resolves the fill for a seat: sold and obstructed states override
// the price band.
func SeatColor(s Seat, ranges []PriceRange) string {
	if s.Status == StatusSold {
		return "#bbb"
	}
	if s.Obstructed {
		return "#999"
	}
	return PriceColor(s.Price, ranges)
}
