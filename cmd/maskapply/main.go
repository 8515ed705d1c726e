// Command maskapply composites a saved mask over an image offline and
// writes the result as PNG. Useful for batch-applying masks exported
// from the editor.
//
// Usage: maskapply -i <image> -m <mask.png> -o <output.png>
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"mask-painter/internal/buffer"
	"mask-painter/internal/compositor"
	"mask-painter/internal/source"
)

func main() {
	imgPath := flag.String("i", "", "Path to the input image")
	maskPath := flag.String("m", "", "Path to the mask PNG")
	outPath := flag.String("o", "", "Path to the output PNG")
	flag.Parse()

	if *imgPath == "" || *maskPath == "" || *outPath == "" {
		fmt.Println("Usage: maskapply -i <image> -m <mask.png> -o <output.png>")
		os.Exit(1)
	}

	if err := run(*imgPath, *maskPath, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "maskapply: %v\n", err)
		os.Exit(1)
	}
}

func run(imgPath, maskPath, outPath string) error {
	img, err := source.Load(imgPath)
	if err != nil {
		return err
	}
	maskImg, err := source.Load(maskPath)
	if err != nil {
		return err
	}

	base := buffer.FromImage(img)
	mask := buffer.FromImage(maskImg)
	if base.Width() != mask.Width() || base.Height() != mask.Height() {
		return fmt.Errorf("mask %dx%d does not match image %dx%d",
			mask.Width(), mask.Height(), base.Width(), base.Height())
	}

	comp := compositor.New(base, mask, compositor.DefaultPreviewScale)

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := png.Encode(f, comp.Display().RGBA()); err != nil {
		return fmt.Errorf("encoding %s: %w", outPath, err)
	}
	return nil
}
