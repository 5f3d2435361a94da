package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidPath      = errors.New("invalid document path")
	ErrNotAnObject      = errors.New("document is not a JSON object")
	ErrWriteConflict    = errors.New("document changed concurrently")
)

// DocumentStore is a path-addressed JSON document store. Paths are slash
// separated; a document's children are the documents one segment below it.
type DocumentStore interface {
	// Get decodes the document at path into out and reports whether it exists.
	Get(ctx context.Context, path string, out any) (bool, error)
	// Set creates or replaces the document at path.
	Set(ctx context.Context, path string, value any) error
	// Update merges fields into the top level of an existing document.
	Update(ctx context.Context, path string, fields map[string]any) error
	// Delete removes the document at path and everything below it.
	Delete(ctx context.Context, path string) error
	// Children returns the direct children of path keyed by their last segment.
	Children(ctx context.Context, path string) (map[string]json.RawMessage, error)
	Ping(ctx context.Context) error
	Backend() string
}

// NormalizePath trims slashes and rejects empty, "." and ".." segments.
func NormalizePath(path string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	segments := strings.Split(trimmed, "/")
	for _, s := range segments {
		if s == "" || s == "." || s == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return strings.Join(segments, "/"), nil
}

// JoinPath builds a normalised path from segments. Segments must not
// contain slashes.
func JoinPath(segments ...string) (string, error) {
	for _, s := range segments {
		if strings.Contains(s, "/") {
			return "", fmt.Errorf("%w: segment %q contains a slash", ErrInvalidPath, s)
		}
	}
	return NormalizePath(strings.Join(segments, "/"))
}

func parentOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return ""
}

func lastSegment(path string) string {
	return path[strings.LastIndexByte(path, '/')+1:]
}

// mergeFields applies fields to the JSON object in doc and returns the result.
func mergeFields(doc []byte, fields map[string]any) ([]byte, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(doc, &obj); err != nil || obj == nil {
		return nil, ErrNotAnObject
	}
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode field %q: %w", k, err)
		}
		obj[k] = raw
	}
	return json.Marshal(obj)
}

func decodeDocument(data []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}
