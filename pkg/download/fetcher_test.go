package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/model"
	"github.com/kpm-work/kpm/pkg/version"
)

func TestPackageFetcher_FetchAndVerify(t *testing.T) {
	const content = "package archive"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(content))
	}))
	defer server.Close()

	pkg := &model.Package{
		Name:     "libfoo",
		Version:  version.Parse("1.2.3"),
		Filename: server.URL + "/pool/libfoo_1.2.3.kpm",
		Checksum: sha256Hex(content),
	}

	f := NewPackageFetcher(NewManager(time.Second, "test"), t.TempDir(), false)
	path, err := f.FetchAndVerify(context.Background(), pkg)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
	assert.Contains(t, path, "libfoo@1.2.3.kpm")
}

func TestPackageFetcher_ChecksumMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("tampered archive"))
	}))
	defer server.Close()

	pkg := &model.Package{
		Name:     "libfoo",
		Version:  version.Parse("1.0"),
		Filename: server.URL + "/pool/libfoo_1.0.kpm",
		Checksum: sha256Hex("original archive"),
	}

	f := NewPackageFetcher(NewManager(time.Second, "test"), t.TempDir(), false)
	_, err := f.FetchAndVerify(context.Background(), pkg)
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrVerification)
}

func TestPackageFetcher_MissingLocation(t *testing.T) {
	f := NewPackageFetcher(NewManager(time.Second, "test"), t.TempDir(), false)
	_, err := f.FetchAndVerify(context.Background(), &model.Package{Name: "nowhere", Version: version.Parse("1.0")})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrDownloadFailed)
}
