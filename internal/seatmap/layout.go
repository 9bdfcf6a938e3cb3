package seatmap

import (
	"errors"
	"fmt"
	"math"
)

// StadiumConfig parameterizes GenerateStadiumLayout. Zero values take the
// defaults below.
type StadiumConfig struct {
	Sections       int
	RowsPerSection int
	SeatsPerRow    int
	CenterX        float64
	CenterY        float64
	StartAngle     float64 // degrees
	EndAngle       float64
	PriceBase      int
	Currency       string
	InnerRadius    float64
	MaxRadius      float64
	SeatSpacing    float64 // target distance between adjacent seats
	Seed           int64   // drives the stable sold-seat distribution
	PriceRanges    []PriceRange
}

func (c *StadiumConfig) applyDefaults() {
	if c.Sections == 0 {
		c.Sections = 8
	}
	if c.RowsPerSection == 0 {
		c.RowsPerSection = 12
	}
	if c.SeatsPerRow == 0 {
		c.SeatsPerRow = 24
	}
	if c.CenterX == 0 {
		c.CenterX = 600
	}
	if c.CenterY == 0 {
		c.CenterY = 850
	}
	if c.StartAngle == 0 && c.EndAngle == 0 {
		c.StartAngle, c.EndAngle = -90, 90
	}
	if c.PriceBase == 0 {
		c.PriceBase = 70
	}
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if c.InnerRadius == 0 {
		c.InnerRadius = 80
	}
	if c.MaxRadius == 0 {
		c.MaxRadius = 500
	}
	if c.SeatSpacing == 0 {
		c.SeatSpacing = 50
	}
	if c.PriceRanges == nil {
		c.PriceRanges = DefaultPriceRanges
	}
}

// GenerateStadiumLayout builds a fan-shaped venue: sections are equal angular
// wedges between StartAngle and EndAngle, rows are concentric arcs, and each
// row holds as many seats as its arc length allows at the target spacing.
// The result is fully determined by the config, including which seats start
// sold (a seeded pseudo-random sprinkle).
func GenerateStadiumLayout(cfg StadiumConfig) (*Layout, error) {
	cfg.applyDefaults()
	if cfg.Sections <= 0 || cfg.RowsPerSection <= 0 || cfg.SeatsPerRow <= 0 {
		return nil, errors.New("seatmap: invalid stadium configuration")
	}

	width := cfg.CenterX * 2
	height := cfg.CenterY * 2
	angleRange := (cfg.EndAngle - cfg.StartAngle) / float64(cfg.Sections)

	cranes := []Rect{
		{X: cfg.CenterX - 150, Y: cfg.CenterY - 100, Width: 20, Height: 150},
		{X: cfg.CenterX + 120, Y: cfg.CenterY - 120, Width: 20, Height: 160},
	}
	maxSeats := int(float64(cfg.SeatsPerRow) * 1.5)

	sections := make([]Section, cfg.Sections)
	for s := 0; s < cfg.Sections; s++ {
		sectionID := fmt.Sprintf("SEC-%d", s+1)
		angleStart := cfg.StartAngle + float64(s)*angleRange
		angleEnd := angleStart + angleRange

		rows := make([]Row, cfg.RowsPerSection)
		for r := 0; r < cfg.RowsPerSection; r++ {
			rowID := rowLabel(r)
			rowRadius := cfg.InnerRadius
			if cfg.RowsPerSection > 1 {
				rowRadius += (cfg.MaxRadius - cfg.InnerRadius) * float64(r) / float64(cfg.RowsPerSection-1)
			}

			// Seats per row follow the arc length, never fewer than 4.
			arcLength := 2 * math.Pi * rowRadius * (angleRange / 360)
			count := int(arcLength / cfg.SeatSpacing)
			if count < 4 {
				count = 4
			}
			if count > maxSeats {
				count = maxSeats
			}

			seats := make([]Seat, count)
			for i := 0; i < count; i++ {
				t := float64(i) / float64(count-1)
				angle := (1-t)*angleStart + t*angleEnd
				cx, cy := polarToCartesian(cfg.CenterX, cfg.CenterY, rowRadius, angle)

				status := StatusAvailable
				if seededRandom(cfg.Seed+int64(s)*1000+int64(r)*100+int64(i)) < 0.1 {
					status = StatusSold
				}

				seats[i] = Seat{
					ID:         fmt.Sprintf("%s-%s-%d", sectionID, rowID, i+1),
					Label:      fmt.Sprintf("%d", i+1),
					Price:      cfg.PriceBase + (cfg.RowsPerSection-r)*20,
					Status:     status,
					Obstructed: seatObstructed(cx, cy, cranes),
					CX:         cx,
					CY:         cy,
					Currency:   cfg.Currency,
				}
			}
			rows[r] = Row{ID: rowID, Index: r + 1, Seats: seats}
		}

		sections[s] = Section{ID: sectionID, Name: fmt.Sprintf("Section %d", s+1), Rows: rows}
	}

	return &Layout{
		Width:       width,
		Height:      height,
		Sections:    sections,
		PriceRanges: cfg.PriceRanges,
		Currency:    cfg.Currency,
		Stage:       &Rect{X: cfg.CenterX, Y: cfg.CenterY - 50, Width: 400, Height: 40, RX: 6},
		Screen:      &Rect{X: cfg.CenterX, Y: cfg.CenterY - 200, Width: 200, Height: 60},
		Cranes:      cranes,
		Entries: []Rect{
			{X: cfg.CenterX - cfg.MaxRadius, Y: cfg.CenterY, Width: 60, Height: 20},
			{X: cfg.CenterX + cfg.MaxRadius - 60, Y: cfg.CenterY, Width: 60, Height: 20},
		},
		Walkways: walkways(cfg, angleRange),
	}, nil
}

// polarToCartesian places a point at radius/angle around the center, with
// zero degrees pointing up.
func polarToCartesian(cx, cy, radius, angleDeg float64) (float64, float64) {
	rad := (angleDeg - 90) * math.Pi / 180
	return cx + math.Cos(rad)*radius, cy + math.Sin(rad)*radius
}

// rowLabel produces Excel-style labels: A..Z, AA, AB, ...
func rowLabel(index int) string {
	label := ""
	n := index + 1
	for n > 0 {
		n--
		label = string(rune('A'+n%26)) + label
		n /= 26
	}
	return label
}

// walkways draws one mid-radius separator line along each section boundary.
func walkways(cfg StadiumConfig, angleRange float64) []Line {
	midRadius := cfg.InnerRadius + (cfg.MaxRadius-cfg.InnerRadius)/2
	out := make([]Line, cfg.Sections)
	for s := 0; s < cfg.Sections; s++ {
		a1 := cfg.StartAngle + float64(s)*angleRange
		a2 := a1 + angleRange
		x1, y1 := polarToCartesian(cfg.CenterX, cfg.CenterY, midRadius, a1)
		x2, y2 := polarToCartesian(cfg.CenterX, cfg.CenterY, midRadius, a2)
		out[s] = Line{X1: x1, Y1: y1, X2: x2, Y2: y2}
	}
	return out
}

// seatObstructed flags seats sitting in a crane's shadow.
func seatObstructed(cx, cy float64, cranes []Rect) bool {
	for _, c := range cranes {
		centerX := c.X + c.Width/2
		centerY := c.Y + c.Height/2
		dx := cx - centerX
		dy := cy - centerY
		if math.Sqrt(dx*dx+dy*dy) < math.Max(c.Width, c.Height)/1.2 {
			return true
		}
	}
	return false
}

// seededRandom is a stable hash-like value in [0, 1) so the generated sold
// seats do not change between runs with the same seed.
func seededRandom(seed int64) float64 {
	x := math.Sin(float64(seed)) * 10000
	return x - math.Floor(x)
}
