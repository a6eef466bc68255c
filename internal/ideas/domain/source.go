package domain

import "context"

// DataSource serves pages of the listing.
type DataSource interface {
	FetchPage(ctx context.Context, q Query) (Page, error)
}

// ImageResolver turns a selected local file into an image reference.
// Resolve blocks until the image is ready; an empty path yields the
// placeholder.
type ImageResolver interface {
	Resolve(ctx context.Context, path string) (string, error)
}
