package interfaces

import (
	"context"

	"github.com/EngrShabir135/koboimg/pkg/domain/model"
)

// ImageFetcher defines the authenticated image download operation
type ImageFetcher interface {
	// FetchImage performs a single HTTP GET with Basic Authentication.
	// A failed attempt is terminal for that URL; no retries.
	FetchImage(ctx context.Context, url string, creds model.Credentials) (*model.FetchedImage, error)
}
