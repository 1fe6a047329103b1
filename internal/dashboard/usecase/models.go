package usecase

import "github.com/shandysiswandi/godash/internal/dashboard/entity"

// ErrorKind tells a fail-soft upload failure apart from a valid empty file.
type ErrorKind string

const (
	ErrorKindNone        ErrorKind = ""
	ErrorKindEmpty       ErrorKind = "empty"
	ErrorKindFormat      ErrorKind = "unsupported_format"
	ErrorKindDecode      ErrorKind = "decode"
	ErrorKindTooLarge    ErrorKind = "payload_too_large"
	ErrorKindParse       ErrorKind = "parse"
)

const (
	MessageEmptyUpload = "Uploaded file is empty or invalid."
	messageErrorPrefix = "Error: "
)

// UploadInput carries either a data URL (Content) or raw bytes from a
// multipart part (Raw). Raw wins when both are set.
type UploadInput struct {
	Content   string
	FileName  string
	Raw       []byte
	SessionID string
}

type UploadResult struct {
	DatasetID        string
	FileName         string
	Columns          []string
	DefaultSelection []string
	PreviewRows      []map[string]entity.Value
	Rows             int
	CacheHit         bool
	Error            string
	ErrorKind        ErrorKind
}

type ChartsResult struct {
	DatasetID string
	Columns   []string
	Stats     []entity.ColumnStatsResult
	Bar       entity.Figure
	Line      entity.Figure
	Scatter   entity.Figure
	Pie       entity.Figure
}

type StatsResult struct {
	DatasetID string
	Columns   []string
	Stats     []entity.ColumnStatsResult
}

type DownloadFormat string

const (
	FormatCSV  DownloadFormat = "csv"
	FormatXLSX DownloadFormat = "xlsx"
)

type DownloadResult struct {
	FileName    string
	ContentType string
	Data        []byte
}
