// Package imageset enumerates training images on disk. The set of usable
// files is defined by what the imaging library can actually decode, not by
// a hardcoded extension list.
package imageset

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// candidate extensions offered to the imaging library. Anything it does not
// recognize is dropped from the supported set.
var candidateExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".tif", ".tiff", ".bmp", ".webp",
}

// SupportedExtensions returns the image file extensions the toolkit can
// decode, lowercased and dot-prefixed.
func SupportedExtensions() []string {
	out := make([]string, 0, len(candidateExtensions))
	for _, ext := range candidateExtensions {
		if _, err := imaging.FormatFromExtension(ext); err == nil {
			out = append(out, ext)
		}
	}
	return out
}

// IsImage reports whether path is a regular file with a decodable image
// extension.
func IsImage(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	_, err = imaging.FormatFromExtension(strings.ToLower(filepath.Ext(path)))
	return err == nil
}

// List walks root recursively and returns every decodable image file,
// subdirectories included. A missing root yields an empty list; training
// sets are often configured before the directory exists.
func List(root string) ([]string, error) {
	images := []string{}

	if _, err := os.Stat(root); err != nil {
		return images, nil
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ferr := imaging.FormatFromExtension(strings.ToLower(filepath.Ext(path))); ferr == nil {
			images = append(images, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}
