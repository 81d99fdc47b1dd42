// Package qrlink is the core domain: managed QR codes, their styled
// artifacts, and the operations the dashboard and the public redirect
// endpoint run against them.
package qrlink

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/prasetyowira/qrlink/constant"
)

// Domain sentinel errors. Handlers branch on these with errors.Is to
// pick a status code.
var (
	ErrEmptyDestination   = errors.New(constant.ErrEmptyDestination)
	ErrEmptySlug          = errors.New(constant.ErrEmptySlug)
	ErrInvalidSlug        = errors.New(constant.ErrInvalidSlug)
	ErrSlugExists         = errors.New(constant.ErrSlugExists)
	ErrSlugNotFound       = errors.New(constant.ErrSlugNotFound)
	ErrInvalidDestination = errors.New(constant.ErrInvalidDestination)
	ErrUnsafeDestination  = errors.New(constant.ErrUnsafeDestination)
	ErrInvalidStyle       = errors.New(constant.ErrInvalidStyle)
	ErrArtifactNotFound   = errors.New(constant.ErrArtifactNotFound)
)

// Code represents the core domain model for a managed QR link. The
// printed QR image encodes the managed URL (base URL + slug); the
// destination can change after stickers are printed.
type Code struct {
	ID          uint      `json:"id"`
	Slug        string    `json:"slug"`
	Destination string    `json:"destination"`
	Label       string    `json:"label,omitempty"`
	Style       Style     `json:"style"`
	LogoDataURI string    `json:"logo_data_uri,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Scans       uint      `json:"scans"`
}

// Artifact is one cached export: the rendered bytes for one code in
// one format at one size, stamped with the style hash that produced
// them.
type Artifact struct {
	Slug      string
	Format    string
	Width     int
	StyleHash string
	Bytes     []byte
	CreatedAt time.Time
}

// Repository defines the interface for code persistence operations
type Repository interface {
	Store(ctx context.Context, code *Code) error
	FindBySlug(ctx context.Context, slug string) (*Code, error)
	ListAll(ctx context.Context) ([]*Code, error)
	UpdateDestination(ctx context.Context, slug, destination string) error
	UpdateStyle(ctx context.Context, slug string, style Style, logoDataURI string) error
	Delete(ctx context.Context, slug string) error
	IncrementScans(ctx context.Context, slug string) error
}

// ArtifactRepository defines the interface for the persistent export
// cache.
type ArtifactRepository interface {
	Get(ctx context.Context, slug, format string, width int) (*Artifact, error)
	Put(ctx context.Context, artifact *Artifact) error
	Purge(ctx context.Context, slug string) error
}

const (
	slugCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	slugLength  = 8
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9-]{3,64}$`)

// generateSlug draws a random slug from crypto/rand so live links
// cannot be enumerated.
func generateSlug(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random slug bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = slugCharset[int(b)%len(slugCharset)]
	}
	return string(buf), nil
}

// validSlug reports whether a caller-chosen slug is acceptable.
func validSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}
