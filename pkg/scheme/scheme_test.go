package scheme

import (
	"path/filepath"
	"testing"

	"github.com/glorpus-work/gowheel/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScheme(root string) Scheme {
	return Scheme{
		Purelib: filepath.Join(root, "purelib"),
		Platlib: filepath.Join(root, "platlib"),
		Scripts: filepath.Join(root, "bin"),
		Data:    root,
		Headers: filepath.Join(root, "include", "demo"),
		Include: filepath.Join(root, "include"),
	}
}

func TestDir(t *testing.T) {
	s := testScheme(t.TempDir())
	for _, c := range Categories {
		dir, err := s.Dir(c)
		require.NoError(t, err)
		assert.NotEmpty(t, dir, c)
	}

	_, err := s.Dir("lib")
	assert.ErrorIs(t, err, errors.ErrUnknownCategory)
}

func TestValidate(t *testing.T) {
	s := testScheme(t.TempDir())
	require.NoError(t, s.Validate())

	missing := s
	missing.Headers = ""
	assert.ErrorIs(t, missing.Validate(), errors.ErrInvalidScheme)

	relative := s
	relative.Scripts = "bin"
	assert.ErrorIs(t, relative.Validate(), errors.ErrInvalidScheme)
}

func TestRoot(t *testing.T) {
	s := testScheme(t.TempDir())
	assert.Equal(t, s.Purelib, s.Root(true))
	assert.Equal(t, s.Platlib, s.Root(false))
}
