// Command pdfcrop extracts a rectangular region of a PDF page to a PNG file.
// Coordinates are given in page units (points at scale 1.0).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/disintegration/imaging"

	"pdfsnip/internal/extract"
	"pdfsnip/internal/pdfdoc"
	"pdfsnip/internal/transform"
)

func main() {
	pdfPath := flag.String("pdf", "", "Path to the PDF document")
	page := flag.Int("page", 1, "Page number (1-based)")
	scale := flag.Float64("scale", 1.0, "Render scale (1.0 = 72 DPI)")
	x := flag.Float64("x", 0, "Region left edge in page units")
	y := flag.Float64("y", 0, "Region top edge in page units")
	w := flag.Float64("w", 0, "Region width in page units")
	h := flag.Float64("h", 0, "Region height in page units")
	out := flag.String("out", "crop.png", "Output PNG path")
	dataURI := flag.Bool("datauri", false, "Print the crop as a PNG data URI instead of writing a file")
	timeout := flag.Duration("timeout", 30*time.Second, "Render timeout")
	flag.Parse()

	if *pdfPath == "" || *w == 0 || *h == 0 {
		fmt.Println("Usage: pdfcrop -pdf <path> -x <pt> -y <pt> -w <pt> -h <pt> [-page 1] [-scale 1.0] [-out crop.png]")
		os.Exit(1)
	}

	doc, err := pdfdoc.Open(*pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open document: %v\n", err)
		os.Exit(1)
	}
	defer doc.Close()

	pg, err := doc.GetPage(*page)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get page: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	img, err := pg.Render(ctx, *scale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}

	sel := transform.NormalizeSelection(transform.BoundingBox{
		X:          *x,
		Y:          *y,
		Width:      *w,
		Height:     *h,
		PageNumber: *page,
		Scale:      *scale,
	})

	crop := extract.FromImage(img, sel, *scale)
	if crop == nil {
		fmt.Fprintln(os.Stderr, "Region is entirely outside the page")
		os.Exit(1)
	}

	if *dataURI {
		uri, err := extract.DataURI(crop)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Encoding failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(uri)
		return
	}

	if err := imaging.Save(crop, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}
	b := crop.Bounds()
	fmt.Printf("Wrote %s (%dx%d px from page %d at scale %.2f)\n",
		*out, b.Dx(), b.Dy(), *page, *scale)
}
