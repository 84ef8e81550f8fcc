// Package index handles repository index files: parsing, validation and
// merging the indexes of all configured repositories into a single available
// set.
package index

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	goversion "github.com/hashicorp/go-version"

	pkgerrors "github.com/kpm-work/kpm/pkg/errors"
	"github.com/kpm-work/kpm/pkg/model"
)

// FormatVersion is the index format this client writes and the newest it
// accepts. Indexes from a 2.x generator are rejected.
const FormatVersion = "1.0"

var formatConstraint = goversion.MustConstraints(goversion.NewConstraint(">= 1.0, < 2.0"))

// Index is the parsed form of a repository index file.
type Index struct {
	FormatVersion string           `json:"format_version"`
	LastUpdate    time.Time        `json:"last_update"`
	Packages      []*model.Package `json:"packages"`
}

// NewIndex creates an empty index with the current format version.
func NewIndex() *Index {
	return &Index{
		FormatVersion: FormatVersion,
		LastUpdate:    time.Now().UTC(),
	}
}

// ParseIndex parses and validates an index from JSON data.
func ParseIndex(data []byte) (*Index, error) {
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrIndexParse, err.Error())
	}
	if idx.FormatVersion == "" {
		return nil, fmt.Errorf("missing format version: %w", pkgerrors.ErrIndexFormat)
	}
	fv, err := goversion.NewVersion(idx.FormatVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid format version %q: %w", idx.FormatVersion, pkgerrors.ErrIndexFormat)
	}
	if !formatConstraint.Check(fv) {
		return nil, fmt.Errorf("unsupported format version %q (supported: %s): %w", idx.FormatVersion, formatConstraint, pkgerrors.ErrIndexFormat)
	}
	for _, pkg := range idx.Packages {
		if pkg.Name == "" {
			return nil, fmt.Errorf("index contains a package without a name: %w", pkgerrors.ErrIndexParse)
		}
	}
	return &idx, nil
}

// ParseIndexFromFile reads and parses the index at path.
func ParseIndexFromFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "cannot open index file %s", path)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "cannot read index file %s", path)
	}
	return ParseIndex(data)
}

// ToJSON serializes the index for publishing.
func (idx *Index) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to marshal index")
	}
	return data, nil
}

// ResolveFilenames rewrites each package's Filename from a path relative to
// the repository root into an absolute URL. Already-absolute filenames are
// left alone.
func (idx *Index) ResolveFilenames(base *url.URL) {
	for _, pkg := range idx.Packages {
		if pkg.Filename == "" {
			continue
		}
		ref, err := url.Parse(pkg.Filename)
		if err != nil || ref.IsAbs() {
			continue
		}
		pkg.Filename = base.ResolveReference(ref).String()
	}
}
