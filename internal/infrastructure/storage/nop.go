package storage

import (
	"context"
	"errors"
	"time"
)

// NopArchive is used when object storage is disabled: uploads are dropped
// and no download link is produced.
type NopArchive struct{}

// NewNopArchive creates a NopArchive
func NewNopArchive() *NopArchive {
	return &NopArchive{}
}

// Put discards data
func (NopArchive) Put(_ context.Context, key string, _ []byte, _ string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// DownloadURL returns an empty URL
func (NopArchive) DownloadURL(_ context.Context, key string, _ time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	return "", time.Time{}, nil
}

// Delete is a no-op
func (NopArchive) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	return nil
}

var _ DocumentArchive = NopArchive{}
