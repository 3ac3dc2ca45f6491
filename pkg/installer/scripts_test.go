package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/gowheel/pkg/entrypoints"
	"github.com/glorpus-work/gowheel/pkg/platform"
)

func TestFixShebang(t *testing.T) {
	interp := platform.Interpreter{Path: "/opt/py/bin/python3"}

	tests := []struct {
		name     string
		content  string
		platform platform.Platform
		want     string
		changed  bool
	}{
		{
			name:     "placeholder",
			content:  "#!python\nimport sys\r\nprint(sys.argv)\n",
			platform: platform.Platform{OS: platform.OSLinux},
			want:     "#!/opt/py/bin/python3\nimport sys\r\nprint(sys.argv)\n",
			changed:  true,
		},
		{
			name:     "placeholder with options",
			content:  "#!pythonw -u\nrun()\n",
			platform: platform.Platform{OS: platform.OSLinux},
			want:     "#!/opt/py/bin/python3\nrun()\n",
			changed:  true,
		},
		{
			name:     "windows line separator",
			content:  "#!python\r\nrun()\r\n",
			platform: platform.Platform{OS: platform.OSWindows},
			want:     "#!/opt/py/bin/python3\r\nrun()\r\n",
			changed:  true,
		},
		{
			name:     "single line",
			content:  "#!python",
			platform: platform.Platform{OS: platform.OSLinux},
			want:     "#!/opt/py/bin/python3\n",
			changed:  true,
		},
		{
			name:     "real interpreter left alone",
			content:  "#!/usr/bin/env python\nrun()\n",
			platform: platform.Platform{OS: platform.OSLinux},
			want:     "#!/usr/bin/env python\nrun()\n",
		},
		{
			name:     "binary",
			content:  "\x7fELF\x00\x01",
			platform: platform.Platform{OS: platform.OSLinux},
			want:     "\x7fELF\x00\x01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "script")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o755))

			changed, err := FixShebang(path, interp, tt.platform)
			require.NoError(t, err)
			assert.Equal(t, tt.changed, changed)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestFixShebang_Directory(t *testing.T) {
	changed, err := FixShebang(t.TempDir(), platform.Interpreter{Path: "/usr/bin/python3"}, platform.Platform{})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestIsEntryPointWrapper(t *testing.T) {
	eps := &entrypoints.EntryPoints{
		Console: []entrypoints.EntryPoint{{Name: "demo"}},
		GUI:     []entrypoints.EntryPoint{{Name: "demo-gui"}},
	}

	tests := []struct {
		name string
		want bool
	}{
		{"demo", true},
		{"demo.exe", true},
		{"demo.EXE", true},
		{"Demo.exe", true},
		{"DEMO-GUI", true},
		{"demo-script.py", true},
		{"demo-gui.pya", true},
		{"demo-gui-script.py", true},
		{"demo-admin", false},
		{"other.exe", false},
		{"demo.py", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isEntryPointWrapper(tt.name, eps))
		})
	}
}
