package index

import "net/url"

// Repository is a configured package source. Higher priority repositories win
// when the same package name appears in more than one index.
type Repository struct {
	Name     string
	URL      *url.URL
	Priority uint
	Enabled  bool
}

// IndexURL returns the URL of the repository's index file.
func (r *Repository) IndexURL() *url.URL {
	ref := &url.URL{Path: "index.json"}
	return r.URL.ResolveReference(ref)
}
