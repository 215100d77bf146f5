// Package storage keeps rendered plan exports in S3-compatible object storage.
package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry is used when no expiry is configured.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the object storage operations used for plan exports.
type FileStorage interface {
	PutObject(ctx context.Context, objectKey string, body []byte, contentType string) error

	// GeneratePresignedDownloadURL creates a temporary GET URL for objectKey.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	DeleteObject(ctx context.Context, objectKey string) error
}

// PlanExportKey is the object key of a plan's Markdown export.
func PlanExportKey(userID, planID string) string {
	return "exports/" + userID + "/" + planID + ".md"
}
