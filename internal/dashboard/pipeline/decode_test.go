package pipeline

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
)

func dataURL(body string) string {
	return "data:text/csv;base64," + base64.StdEncoding.EncodeToString([]byte(body))
}

func TestCheckFormat(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		strict bool
		ok     bool
	}{
		{"lenient suffix", "sales.csv", false, true},
		{"lenient substring", "mycsvfile.txt", false, true},
		{"lenient is case sensitive", "SALES.CSV", false, false},
		{"lenient rejects xlsx", "sales.xlsx", false, false},
		{"strict upper case", "SALES.CSV", true, true},
		{"strict rejects substring", "mycsvfile.txt", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFormat(tt.file, tt.strict)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrUnsupportedFormat) {
				t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	data, err := Decode(entity.UploadPayload{Content: dataURL("a,b\n1,2\n"), FileName: "x.csv"}, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Fatalf("unexpected data: %q", data)
	}
}

func TestDecodeIgnoresWhitespaceInBody(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("Month,Sales\nJan,10\n"))
	wrapped := encoded[:8] + "\r\n" + encoded[8:16] + " \t" + encoded[16:] + "\n"

	data, err := Decode(entity.UploadPayload{Content: "data:text/csv;base64," + wrapped, FileName: "x.csv"}, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "Month,Sales\nJan,10\n" {
		t.Fatalf("unexpected data: %q", data)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload entity.UploadPayload
		limits  Limits
		want    error
	}{
		{"wrong extension", entity.UploadPayload{Content: dataURL("a\n"), FileName: "a.xlsx"}, Limits{}, ErrUnsupportedFormat},
		{"missing separator", entity.UploadPayload{Content: "no-separator", FileName: "a.csv"}, Limits{}, ErrDecode},
		{"extra separator", entity.UploadPayload{Content: "meta,abc,def", FileName: "a.csv"}, Limits{}, ErrDecode},
		{"bad base64", entity.UploadPayload{Content: "meta,!!!!", FileName: "a.csv"}, Limits{}, ErrDecode},
		{"non-alphabet byte", entity.UploadPayload{Content: "meta,YS*xCg==", FileName: "a.csv"}, Limits{}, ErrDecode},
		{"too large", entity.UploadPayload{Content: dataURL("0123456789abcdef"), FileName: "a.csv"}, Limits{MaxBytes: 4}, ErrPayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload, tt.limits)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCheckRaw(t *testing.T) {
	if err := CheckRaw("a.csv", []byte("a\n1\n"), Limits{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckRaw("a.csv", []byte("0123456789"), Limits{MaxBytes: 5}); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	if err := CheckRaw("a.txt", nil, Limits{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
