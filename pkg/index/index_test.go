package index

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/model"
	"github.com/kpm-work/kpm/pkg/version"
)

func TestParseIndex(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name: "valid index",
			data: `{"format_version": "1.0", "last_update": "2026-01-02T15:04:05Z", "packages": [{"name": "libfoo", "version": "1.2.3"}]}`,
		},
		{
			name: "minor format bump accepted",
			data: `{"format_version": "1.4", "packages": []}`,
		},
		{
			name:    "major format bump rejected",
			data:    `{"format_version": "2.0", "packages": []}`,
			wantErr: pkgerrors.ErrIndexFormat,
		},
		{
			name:    "missing format version",
			data:    `{"packages": []}`,
			wantErr: pkgerrors.ErrIndexFormat,
		},
		{
			name:    "garbage format version",
			data:    `{"format_version": "banana", "packages": []}`,
			wantErr: pkgerrors.ErrIndexFormat,
		},
		{
			name:    "invalid json",
			data:    `{"format_version": "1.0",`,
			wantErr: pkgerrors.ErrIndexParse,
		},
		{
			name:    "package without name",
			data:    `{"format_version": "1.0", "packages": [{"version": "1.0"}]}`,
			wantErr: pkgerrors.ErrIndexParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := ParseIndex([]byte(tt.data))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, idx)
		})
	}
}

func TestParseIndex_PackageFields(t *testing.T) {
	data := `{
		"format_version": "1.0",
		"packages": [{
			"name": "mail-reader",
			"version": "2:1.0-3",
			"depends": [{"name": "mta", "op": ">=", "version": "8.0"}],
			"provides": ["mail-client"],
			"filename": "pool/mail-reader_1.0-3.kpm",
			"checksum": "abc123"
		}]
	}`

	idx, err := ParseIndex([]byte(data))
	require.NoError(t, err)
	require.Len(t, idx.Packages, 1)

	pkg := idx.Packages[0]
	assert.Equal(t, "mail-reader", pkg.Name)
	assert.Equal(t, version.Version{Epoch: 2, Upstream: "1.0", Revision: "3"}, pkg.Version)
	require.Len(t, pkg.Depends, 1)
	assert.Equal(t, model.OpGreaterEqual, pkg.Depends[0].Op)
	assert.Equal(t, []string{"mail-client"}, pkg.Provides)
}

func TestParseIndexFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.json")

	idx := NewIndex()
	idx.LastUpdate = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	idx.Packages = append(idx.Packages, &model.Package{Name: "libfoo", Version: version.Parse("1.0")})

	data, err := idx.ToJSON()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o640))

	parsed, err := ParseIndexFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, parsed.FormatVersion)
	require.Len(t, parsed.Packages, 1)
	assert.Equal(t, "libfoo", parsed.Packages[0].Name)

	_, err = ParseIndexFromFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestResolveFilenames(t *testing.T) {
	base, err := url.Parse("https://repo.example/kpm/")
	require.NoError(t, err)

	idx := &Index{
		FormatVersion: FormatVersion,
		Packages: []*model.Package{
			{Name: "relative", Filename: "pool/relative_1.0.kpm"},
			{Name: "absolute", Filename: "https://mirror.example/pool/absolute_1.0.kpm"},
			{Name: "empty"},
		},
	}
	idx.ResolveFilenames(base)

	assert.Equal(t, "https://repo.example/kpm/pool/relative_1.0.kpm", idx.Packages[0].Filename)
	assert.Equal(t, "https://mirror.example/pool/absolute_1.0.kpm", idx.Packages[1].Filename)
	assert.Empty(t, idx.Packages[2].Filename)
}

func TestRepositoryIndexURL(t *testing.T) {
	base, err := url.Parse("https://repo.example/kpm/")
	require.NoError(t, err)

	repo := &Repository{Name: "main", URL: base}
	assert.Equal(t, "https://repo.example/kpm/index.json", repo.IndexURL().String())
}
