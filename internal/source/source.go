// Package source turns a submitted page into the plain text the extractor scans.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/vytor/bestofn/internal/logger"
)

var (
	// ErrSourceUnavailable means no document text could be obtained at all.
	// It is distinct from a document that simply contains no scores.
	ErrSourceUnavailable = errors.New("document text unavailable")
	// ErrDocumentTooLarge is returned for bodies over the configured limit.
	ErrDocumentTooLarge = errors.New("document too large")
)

// Document is the currently active page as submitted by the client.
type Document struct {
	Ref         string // page URL or title, informational only
	ContentType string
	Body        []byte
	// Size is the submitted length when Body was cut short by a reader
	// limit. Zero means len(Body).
	Size int64
}

// Len returns the submitted length of the document.
func (d Document) Len() int64 {
	return max(d.Size, int64(len(d.Body)))
}

// TextSource yields the visible text of a document.
type TextSource interface {
	Text(ctx context.Context, doc Document) (string, error)
}

// PageSource reads HTML or plain-text documents.
type PageSource struct {
	maxBytes int64
}

// NewPageSource creates a PageSource rejecting bodies above maxBytes.
// A non-positive maxBytes disables the limit.
func NewPageSource(maxBytes int64) *PageSource {
	return &PageSource{maxBytes: maxBytes}
}

var _ TextSource = (*PageSource)(nil)

func (p *PageSource) Text(ctx context.Context, doc Document) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("source")

	if p.maxBytes > 0 && doc.Len() > p.maxBytes {
		log.Warn("document of %d bytes exceeds limit of %d", doc.Len(), p.maxBytes)
		return "", fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, doc.Len())
	}
	if len(bytes.TrimSpace(doc.Body)) == 0 {
		return "", fmt.Errorf("%w: empty document", ErrSourceUnavailable)
	}
	if !utf8.Valid(doc.Body) {
		return "", fmt.Errorf("%w: body is not valid UTF-8", ErrSourceUnavailable)
	}

	if isHTML(doc) {
		text, err := VisibleText(bytes.NewReader(doc.Body))
		if err != nil {
			log.Warn("failed to parse html document %q: %v", doc.Ref, err)
			return "", fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		log.Debug("extracted %d chars of visible text from html (%d bytes)", len(text), len(doc.Body))
		return text, nil
	}

	return string(doc.Body), nil
}

// isHTML trusts an explicit media type and otherwise sniffs for markup.
func isHTML(doc Document) bool {
	if doc.ContentType != "" {
		if mt, _, err := mime.ParseMediaType(doc.ContentType); err == nil {
			switch mt {
			case "text/html", "application/xhtml+xml":
				return true
			case "text/plain":
				return false
			}
		}
	}
	head := strings.ToLower(strings.TrimSpace(string(doc.Body[:min(len(doc.Body), 512)])))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body")
}
