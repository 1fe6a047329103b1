package pipeline

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrDecode            = errors.New("invalid upload encoding")
	ErrPayloadTooLarge   = errors.New("upload exceeds size limit")
	ErrParse             = errors.New("malformed csv")
)

// DefaultMaxBytes caps a decoded upload when Limits.MaxBytes is not set.
const DefaultMaxBytes int64 = 10 << 20

// Limits configures the decoder.
type Limits struct {
	// MaxBytes is the ceiling for decoded content; <= 0 means DefaultMaxBytes.
	MaxBytes int64
	// StrictExtension requires a ".csv" suffix (any case) instead of the
	// lenient rule where the name only has to contain "csv".
	StrictExtension bool
}

func (l Limits) maxBytes() int64 {
	if l.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return l.MaxBytes
}

// CheckFormat validates the declared file name.
func CheckFormat(fileName string, strict bool) error {
	if strict {
		if strings.HasSuffix(strings.ToLower(fileName), ".csv") {
			return nil
		}
	} else if strings.Contains(fileName, "csv") {
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, fileName)
}

// Decode turns a data-URL style payload into raw bytes.
func Decode(payload entity.UploadPayload, limits Limits) ([]byte, error) {
	if err := CheckFormat(payload.FileName, limits.StrictExtension); err != nil {
		return nil, err
	}

	_, body, ok := strings.Cut(payload.Content, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing metadata separator", ErrDecode)
	}
	if strings.Contains(body, ",") {
		return nil, fmt.Errorf("%w: unexpected separator in body", ErrDecode)
	}
	body = stripASCIISpace(body)

	// DecodedLen over-estimates by at most two padding bytes.
	limit := limits.maxBytes()
	if int64(base64.StdEncoding.DecodedLen(len(body))) > limit+2 {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrPayloadTooLarge, limit)
	}

	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrPayloadTooLarge, limit)
	}

	return data, nil
}

// stripASCIISpace drops the spaces, tabs and line breaks that wrapped or
// pasted base64 often carries. Other non-alphabet bytes still fail decoding.
func stripASCIISpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			return -1
		}
		return r
	}, s)
}

// CheckRaw applies the decoder's name and size rules to bytes that arrived
// without base64 wrapping (multipart uploads).
func CheckRaw(fileName string, data []byte, limits Limits) error {
	if err := CheckFormat(fileName, limits.StrictExtension); err != nil {
		return err
	}

	if limit := limits.maxBytes(); int64(len(data)) > limit {
		return fmt.Errorf("%w: more than %d bytes", ErrPayloadTooLarge, limit)
	}

	return nil
}
