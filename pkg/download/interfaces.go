package download

import (
	"context"
	"net/url"
)

// Manager defines the interface for fetching remote resources (repository
// indexes, package archives). It provides batching, cache reuse and integrity
// verification on top of plain HTTP.
type Manager interface {
	// FetchAll downloads all items, respecting Options (concurrency, cache dir).
	// It returns a map from Item.ID to absolute local file path.
	FetchAll(ctx context.Context, items []Item, opts Options) (map[string]string, error)

	// Fetch downloads a single item into opts.Dir and returns the absolute
	// local file path.
	Fetch(ctx context.Context, item Item, opts Options) (string, error)
}

// Item represents one remote resource to download.
type Item struct {
	ID       string   // stable identifier (e.g. package id). Must be unique within a batch.
	URL      *url.URL // source URL
	Checksum string   // optional hex-encoded SHA-256; verified when non-empty
	Filename string   // optional preferred filename; derived when empty
}

// Options control the behavior of the download manager.
type Options struct {
	Dir         string // destination directory (cache). Must be absolute.
	Concurrency int    // parallel downloads; <=0 picks a default
	Progress    bool   // render a byte progress bar per download
}
