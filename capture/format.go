package capture

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an image encoding token understood by the capture encoder.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// FormatForPath derives the image format from the output path's
// extension. An unrecognized or missing extension is a misconfiguration
// and fails fast: the encoder must be told a valid format, and a silent
// default would mask the mistake until the files are inspected.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".webp":
		return FormatWebP, nil
	case "":
		return "", fmt.Errorf("capture: output path %q has no extension", path)
	default:
		return "", fmt.Errorf("capture: unsupported output extension %q", ext)
	}
}
