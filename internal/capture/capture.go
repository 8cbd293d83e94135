package capture

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Encoding says how a document payload is represented.
type Encoding string

const (
	// EncodingText means the payload is the file's decoded text.
	EncodingText Encoding = "text"
	// EncodingBinaryBase64 means the payload is the whole file base64-encoded.
	EncodingBinaryBase64 Encoding = "binary_base64"
)

// Document is a fully materialized attachment. The payload is complete
// before a Document exists; a failed read never produces one.
type Document struct {
	ID            uuid.UUID
	Name          string
	SizeBytes     int64
	MediaTypeHint string
	Encoding      Encoding
	Payload       string
}

// ErrTooLarge is returned for files exceeding the configured size cap.
var ErrTooLarge = errors.New("document exceeds size limit")

// Failure records one file that could not be captured.
type Failure struct {
	Name string
	Err  error
}

// Result holds the outcome of a capture batch. Every input file lands
// in exactly one of the two slices.
type Result struct {
	Documents []Document
	Failures  []Failure
}

// Capturer reads user-selected files into Documents.
type Capturer struct {
	// maxDocumentBytes caps a single file; 0 disables the cap.
	maxDocumentBytes int64
}

// NewCapturer creates a capturer with the given per-document byte cap.
func NewCapturer(maxDocumentBytes int64) *Capturer {
	return &Capturer{maxDocumentBytes: maxDocumentBytes}
}

// CaptureAll reads every file concurrently. One file's failure never
// blocks or fails the others; the batch returns once every file has
// either produced a document or failed. Output order follows input order.
func (c *Capturer) CaptureAll(ctx context.Context, paths []string) Result {
	type slot struct {
		doc Document
		err error
	}

	slots := make([]slot, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			doc, err := c.captureOne(ctx, path)
			if err != nil {
				slots[i].err = err
				return
			}
			slots[i].doc = doc
		}(i, path)
	}
	wg.Wait()

	var result Result
	for i, s := range slots {
		if s.err != nil {
			result.Failures = append(result.Failures, Failure{
				Name: filepath.Base(paths[i]),
				Err:  s.err,
			})
			continue
		}
		result.Documents = append(result.Documents, s.doc)
	}
	return result
}

// captureOne reads a single file into a Document.
func (c *Capturer) captureOne(ctx context.Context, path string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if c.maxDocumentBytes > 0 && info.Size() > c.maxDocumentBytes {
		return Document{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, info.Size(), c.maxDocumentBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read file: %w", err)
	}

	name := filepath.Base(path)
	hint := mime.TypeByExtension(filepath.Ext(path))

	doc := Document{
		ID:            uuid.New(),
		Name:          name,
		SizeBytes:     int64(len(data)),
		MediaTypeHint: hint,
	}
	if IsTextual(name, hint) {
		doc.Encoding = EncodingText
		doc.Payload = string(data)
	} else {
		doc.Encoding = EncodingBinaryBase64
		doc.Payload = base64.StdEncoding.EncodeToString(data)
	}
	return doc, nil
}

// IsTextual reports whether a file should be captured as text rather
// than base64. A file is text if its media type mentions "text" or its
// name carries a known text extension. Opaque formats still travel,
// base64-encoded, so the model can at least see they were attached.
func IsTextual(name, mediaTypeHint string) bool {
	if strings.Contains(strings.ToLower(mediaTypeHint), "text") {
		return true
	}
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".txt") ||
		strings.HasSuffix(lower, ".csv") ||
		strings.HasSuffix(lower, ".json")
}
