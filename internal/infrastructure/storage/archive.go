// Package storage archives rendered documents in S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContentTypePDF is the MIME type of archived delivery notes
const ContentTypePDF = "application/pdf"

// DocumentArchive keeps a copy of generated documents and hands out
// time-limited download links.
type DocumentArchive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	Delete(ctx context.Context, key string) error
}

// DocumentKey is the object key of a tenant document:
// documents/{tenant}/{yyyy}/{mm}/{id}.pdf
func DocumentKey(tenantID, documentID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("documents/%s/%04d/%02d/%s.pdf", tenantID, at.Year(), int(at.Month()), documentID)
}
