// Command pdfinfo prints page geometry for a PDF document.
package main

import (
	"flag"
	"fmt"
	"os"

	"pdfsnip/internal/pdfdoc"
	"pdfsnip/internal/transform"
)

func main() {
	pdfPath := flag.String("pdf", "", "Path to the PDF document")
	scale := flag.Float64("scale", 1.0, "Report viewport dimensions at this scale")
	flag.Parse()

	if *pdfPath == "" {
		fmt.Println("Usage: pdfinfo -pdf <path> [-scale 1.0]")
		os.Exit(1)
	}

	doc, err := pdfdoc.Open(*pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open document: %v\n", err)
		os.Exit(1)
	}
	defer doc.Close()

	fmt.Printf("Document: %s\n", doc.Path())
	fmt.Printf("Pages: %d\n\n", doc.NumPages())
	fmt.Printf("%-6s %12s %12s %14s %14s\n", "Page", "Width (pt)", "Height (pt)", "View W (px)", "View H (px)")

	for n := 1; n <= doc.NumPages(); n++ {
		pg, err := doc.GetPage(n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Page %d: %v\n", n, err)
			continue
		}
		w, h := pg.Size()
		v, err := pg.Viewport(*scale)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Page %d: %v\n", n, err)
			continue
		}
		fmt.Printf("%-6d %12.2f %12.2f %14.2f %14.2f\n", n, w, h, v.Width, v.Height)
	}

	if doc.NumPages() > 0 {
		pg, err := doc.GetPage(1)
		if err == nil {
			if v, err := pg.Viewport(*scale); err == nil {
				fmt.Printf("\nTransform at scale %.2f: %v\n", *scale, transform.CreateTransformMatrix(v))
			}
		}
	}
}
