package store

import (
	"context"
	"errors"
)

// ErrPhotoNotFound is returned by [PhotoStore.Get] for an unknown object.
var ErrPhotoNotFound = errors.New("photo was not found")

// PhotoStore keeps proof-of-intake images addressed by owner and content
// hash. Writing the same object twice is harmless.
type PhotoStore interface {
	// Put stores data and returns the image path recorded on logs.
	Put(ctx context.Context, ownerID, hash string, data []byte) (string, error)
	// Get returns the object written under ownerID and hash.
	Get(ctx context.Context, ownerID, hash string) ([]byte, error)
}

func photoKey(ownerID, hash string) string {
	return "photos/" + ownerID + "/" + hash
}
