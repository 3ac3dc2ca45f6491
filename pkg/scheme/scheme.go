// Package scheme describes where each category of wheel content is installed.
// Computing a scheme is the caller's business; this package only names the
// categories and checks that a supplied mapping is usable.
package scheme

import (
	"fmt"
	"path/filepath"

	"github.com/glorpus-work/gowheel/pkg/errors"
)

// Category is an install scheme key.
type Category string

// Scheme categories. The names match the subdirectories of a wheel's
// {name}.data directory.
const (
	Purelib Category = "purelib"
	Platlib Category = "platlib"
	Scripts Category = "scripts"
	Data    Category = "data"
	Headers Category = "headers"
	Include Category = "include"
)

// Categories lists every category in a fixed order.
var Categories = []Category{Purelib, Platlib, Scripts, Data, Headers, Include}

// Scheme maps each category to an absolute target directory.
type Scheme struct {
	Purelib string `yaml:"purelib" json:"purelib"`
	Platlib string `yaml:"platlib" json:"platlib"`
	Scripts string `yaml:"scripts" json:"scripts"`
	Data    string `yaml:"data" json:"data"`
	Headers string `yaml:"headers" json:"headers"`
	Include string `yaml:"include" json:"include"`
}

// Dir returns the directory for category.
func (s Scheme) Dir(category Category) (string, error) {
	switch category {
	case Purelib:
		return s.Purelib, nil
	case Platlib:
		return s.Platlib, nil
	case Scripts:
		return s.Scripts, nil
	case Data:
		return s.Data, nil
	case Headers:
		return s.Headers, nil
	case Include:
		return s.Include, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnknownCategory, category)
	}
}

// Validate checks that every category maps to an absolute path.
func (s Scheme) Validate() error {
	for _, c := range Categories {
		dir, _ := s.Dir(c)
		if dir == "" {
			return fmt.Errorf("%w: %s directory is not set", errors.ErrInvalidScheme, c)
		}
		if !filepath.IsAbs(dir) {
			return fmt.Errorf("%w: %s directory %q is not absolute", errors.ErrInvalidScheme, c, dir)
		}
	}
	return nil
}

// Root returns the library directory the bulk of a wheel lands in.
func (s Scheme) Root(purelib bool) string {
	if purelib {
		return s.Purelib
	}
	return s.Platlib
}
