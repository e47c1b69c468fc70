package cities

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cities.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, "# header\nLima\n\n  Quito  \nlima\nMexico City\n")

	catalog, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SourceFile, catalog.Source())
	assert.Equal(t, []string{"Lima", "Quito", "Mexico City"}, catalog.Names())
	assert.Equal(t, 3, catalog.Len())
	assert.True(t, catalog.Contains("QUITO"))
	assert.False(t, catalog.Contains("Bogota"))
}

func TestLoad_FallsBackToDefault(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr bool
		errIs   error
	}{
		{
			name:    "no path configured",
			path:    func(t *testing.T) string { return "" },
			wantErr: false,
		},
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.txt") },
			wantErr: true,
			errIs:   os.ErrNotExist,
		},
		{
			name:    "only comments",
			path:    func(t *testing.T) string { return writeCatalog(t, "# nothing here\n\n") },
			wantErr: true,
			errIs:   ErrEmptyCatalog,
		},
		{
			name:    "path is a directory",
			path:    func(t *testing.T) string { return t.TempDir() },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := Load(tt.path(t))

			require.NotNil(t, catalog)
			assert.Equal(t, SourceDefault, catalog.Source())
			assert.Equal(t, DefaultCities, catalog.Names())

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.errIs != nil {
				assert.True(t, errors.Is(err, tt.errIs), "got %v", err)
			}
		})
	}
}

func TestCatalog_NamesReturnsCopy(t *testing.T) {
	catalog := Default()

	names := catalog.Names()
	names[0] = "Changed"

	assert.Equal(t, "Bogota", catalog.Names()[0])
}
