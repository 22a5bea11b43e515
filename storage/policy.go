package storage

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const MaxImageSize = 3 * 1024 * 1024

// PolicyError is returned when an upload is rejected before reaching storage.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string { return e.Reason }

// Policy limits what may be uploaded as an ad image.
type Policy struct {
	MaxBytes int64
	Allowed  []string
}

func DefaultPolicy() Policy {
	return Policy{
		MaxBytes: MaxImageSize,
		Allowed:  []string{"image/jpeg", "image/png", "image/webp"},
	}
}

func (p Policy) allows(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "image/jpg" {
		contentType = "image/jpeg"
	}
	for _, t := range p.Allowed {
		if t == contentType {
			return true
		}
	}
	return false
}

// CheckSize rejects empty files and files over the limit.
func (p Policy) CheckSize(size int64) error {
	if size <= 0 {
		return &PolicyError{Reason: "file is empty"}
	}
	if size > p.MaxBytes {
		return &PolicyError{Reason: fmt.Sprintf("image cannot exceed %dMB", p.MaxBytes/(1024*1024))}
	}
	return nil
}

// Check validates the declared content type and the sniffed content. It
// returns the detected MIME type with its canonical extension.
func (p Policy) Check(declared string, data []byte) (*mimetype.MIME, error) {
	if err := p.CheckSize(int64(len(data))); err != nil {
		return nil, err
	}
	if declared != "" && !p.allows(declared) {
		return nil, &PolicyError{Reason: "invalid format, use JPG, PNG or WebP"}
	}
	detected := mimetype.Detect(data)
	if !p.allows(detected.String()) {
		return nil, &PolicyError{Reason: "file content is not a JPG, PNG or WebP image"}
	}
	return detected, nil
}
