// Package export writes rendered images and scene meshes to disk.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for file extensions no writer handles.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format identifies an output file format.
type Format int

const (
	FormatPNG Format = iota
	FormatTIFF
	FormatOBJ
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatTIFF:
		return "tiff"
	case FormatOBJ:
		return "obj"
	default:
		return "unknown"
	}
}

// Extension returns the preferred file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatTIFF:
		return ".tif"
	case FormatOBJ:
		return ".obj"
	default:
		return ".png"
	}
}

// IsImage reports whether the format holds a raster image.
func (f Format) IsImage() bool {
	return f == FormatPNG || f == FormatTIFF
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".obj":
		return FormatOBJ, nil
	default:
		return 0, fmt.Errorf("%q: %w", filepath.Ext(path), ErrUnsupportedFormat)
	}
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// WriteTIFF encodes img as a deflate-compressed TIFF.
func WriteTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// WriteImage encodes img in the given raster format.
func WriteImage(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return WritePNG(w, img)
	case FormatTIFF:
		return WriteTIFF(w, img)
	default:
		return fmt.Errorf("%s image: %w", f, ErrUnsupportedFormat)
	}
}

// SaveImage writes img to path in the format chosen by its extension.
func SaveImage(path string, img image.Image) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if !f.IsImage() {
		return fmt.Errorf("%s image: %w", f, ErrUnsupportedFormat)
	}
	return writeFile(path, func(w io.Writer) error {
		return WriteImage(w, img, f)
	})
}

// writeFile creates path and streams content into it through a buffer.
func writeFile(path string, content func(w io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(file)
	if err := content(bw); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
