// Command detecttest runs segmentation and targeting on a scan and prints the
// candidate regions, without moving the arm or composing a result.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"surgery-sim/internal/contour"
	simimage "surgery-sim/internal/image"
	"surgery-sim/internal/render"
	"surgery-sim/internal/segment"
	"surgery-sim/internal/target"
)

func main() {
	imagePath := flag.String("image", "", "Path to scan (TIFF, PNG, JPEG or BMP)")
	threshold := flag.Int("threshold", segment.DefaultThreshold, "Foreground gray level threshold (0-255)")
	refX := flag.Int("ref-x", 50, "Actuator reference X for guide arrows")
	refY := flag.Int("ref-y", 150, "Actuator reference Y for guide arrows")
	annotate := flag.String("annotate", "", "Optional path for the annotated targeting frame")
	flag.Parse()

	if *imagePath == "" || *threshold < 0 || *threshold > 255 {
		fmt.Println("Usage: detecttest -image <path> [-threshold 100] [-ref-x 50 -ref-y 150] [-annotate out.png]")
		os.Exit(1)
	}

	frame, err := simimage.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	defer frame.Close()
	fmt.Printf("Loaded image: %dx%d pixels\n", frame.Cols(), frame.Rows())

	segmenter := segment.New(uint8(*threshold))
	mask, err := segmenter.Segment(frame)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Segmentation failed: %v\n", err)
		os.Exit(1)
	}
	defer mask.Close()

	contours, err := contour.Extract(mask)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Contour extraction failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nFound %d regions above threshold %d:\n", len(contours), *threshold)
	fmt.Printf("%-6s %10s %8s %8s %8s %8s %8s\n", "Index", "Area", "X", "Y", "W", "H", "Points")
	for _, c := range contours {
		box := c.Bounds()
		fmt.Printf("%-6d %10.1f %8d %8d %8d %8d %8d\n",
			c.Index, c.Area(), box.X, box.Y, box.Width, box.Height, len(c.Points))
	}

	largest, ok := contour.SelectLargest(contours)
	if !ok {
		fmt.Println("\nNo tumor detected.")
		return
	}

	targeter := target.New(target.DefaultArrowOffset)
	geom, err := targeter.Compute(largest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Targeting failed: %v\n", err)
		os.Exit(1)
	}
	left, right := targeter.Arrows(image.Pt(*refX, *refY), geom.Box)

	fmt.Printf("\nTarget: region %d %s\n", largest.Index, geom)
	center := geom.CentroidPixel()
	px := frame.GetVecbAt(center.Y, center.X)
	fmt.Printf("  Centroid pixel %v: BGR=%v foreground=%v\n",
		center, []uint8(px), segmenter.IsForeground(px[2], px[1], px[0]))
	fmt.Printf("  Left guide:  %v -> %v (%.1f px)\n", left.From, left.To, left.Length())
	fmt.Printf("  Right guide: %v -> %v (%.1f px)\n", right.From, right.To, right.Length())

	if *annotate != "" {
		comp := render.New(render.DefaultRemovalRadius)
		highlighted := comp.HighlightDetection(frame, largest)
		defer highlighted.Close()
		annotated := comp.AnnotateTargeting(highlighted, geom.Box, left, right)
		defer annotated.Close()

		if err := simimage.Save(*annotate, annotated); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save annotation: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nAnnotated frame saved to %s\n", *annotate)
	}
}
