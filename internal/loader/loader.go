// Package loader provides the minimal flat-binary image loader named
// in SPEC_FULL.md §6 as the stand-in for the out-of-scope ELF loader.
package loader

import (
	"fmt"
	"os"
)

// LoadFlat reads a raw little-endian instruction-word stream from path
// into a byte slice at offset 0, matching the "32-bit little-endian
// words at aligned PC addresses" contract of spec.md §6. It performs
// no relocation, no symbol resolution, and no section parsing — a full
// ELF reader is explicitly out of scope per spec.md §1.
func LoadFlat(path string) ([]byte, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	if len(image)%4 != 0 {
		return nil, fmt.Errorf("loader: %s is not a whole number of 32-bit words (%d bytes)", path, len(image))
	}
	return image, nil
}
