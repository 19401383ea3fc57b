package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/rm-hull/photo-editor/internal"
	"github.com/rm-hull/photo-editor/internal/codec"
	"github.com/rm-hull/photo-editor/internal/recipe"
)

// Apply runs a recipe over one image and writes the result to outputPath.
// An empty format is inferred from the output file name.
func Apply(recipePath, inputPath, outputPath, format string) error {
	if inputPath == "" || outputPath == "" {
		return errors.New("both --input and --output are required")
	}

	rec, err := recipe.Load(recipePath)
	if err != nil {
		return err
	}

	f := codec.FormatFromPath(outputPath)
	if format != "" {
		if f, err = codec.ParseFormat(format); err != nil {
			return err
		}
	}
	if f.Animated() {
		return fmt.Errorf("apply cannot write %v", f)
	}

	img, err := codec.Open(inputPath)
	if err != nil {
		return err
	}

	out, err := rec.Apply(img)
	if err != nil {
		return err
	}

	err = internal.WriteAtomic(outputPath, func(w io.Writer) error {
		return codec.Encode(w, out, f)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	log.Printf("Applied recipe %q to %s: wrote %s (%dx%d)", rec.Name, inputPath, outputPath, out.Width(), out.Height())
	return nil
}
