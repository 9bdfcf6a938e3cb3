package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mereapp/merechat/internal/seatmap"
)

// runSeatmap generates a stadium layout and writes its SVG rendering, so the
// map can be inspected without the web frontend.
func runSeatmap(args []string) {
	fs := flag.NewFlagSet("seatmap", flag.ExitOnError)
	sections := fs.Int("sections", 4, "Number of sections")
	rows := fs.Int("rows", 6, "Rows per section")
	seats := fs.Int("seats", 12, "Target seats per row")
	seed := fs.Int64("seed", 1, "Seed for the sold-seat distribution")
	priceBase := fs.Int("price-base", 70, "Base seat price")
	zoom := fs.Float64("zoom", 1, "Zoom factor applied before rendering")
	out := fs.String("out", "seatmap.svg", "Output SVG path (- for stdout)")
	fs.Parse(args)

	layout, err := seatmap.GenerateStadiumLayout(seatmap.StadiumConfig{
		Sections:       *sections,
		RowsPerSection: *rows,
		SeatsPerRow:    *seats,
		PriceBase:      *priceBase,
		Seed:           *seed,
	})
	if err != nil {
		log.Fatalf("generate layout: %v", err)
	}

	cam := seatmap.NewCamera(layout.Width, layout.Height)
	if *zoom != 1 {
		cam.Zoom(*zoom)
	}

	doc := seatmap.RenderSVG(layout, cam, nil)
	markup := doc.Markup()

	if *out == "-" {
		fmt.Println(markup)
	} else {
		if err := os.WriteFile(*out, []byte(markup), 0o644); err != nil {
			log.Fatalf("write %s: %v", *out, err)
		}
	}

	sold := 0
	for _, sec := range layout.Sections {
		for _, row := range sec.Rows {
			for _, s := range row.Seats {
				if s.Status == seatmap.StatusSold {
					sold++
				}
			}
		}
	}
	fmt.Fprintf(os.Stderr, "%d sections, %d seats (%d sold), viewBox %s\n",
		len(layout.Sections), layout.SeatCount(), sold, cam.ViewBox())
}
