package inbound

import (
	"net/http"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
	"github.com/shandysiswandi/godash/internal/dashboard/usecase"
)

type UploadRequest struct {
	Content   string `json:"content"`
	FileName  string `json:"filename"`
	SessionID string `json:"session_id"`
}

type UploadResponse struct {
	DatasetID        string                    `json:"dataset_id"`
	FileName         string                    `json:"file_name"`
	Columns          []string                  `json:"columns"`
	DefaultSelection []string                  `json:"default_selection"`
	PreviewRows      []map[string]entity.Value `json:"preview_rows"`
	Rows             int                       `json:"rows"`
	CacheHit         bool                      `json:"cache_hit"`
	Error            string                    `json:"error,omitempty"`
	ErrorKind        usecase.ErrorKind         `json:"error_kind,omitempty"`
	created          bool
}

func (r UploadResponse) StatusCode() int {
	if r.created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (r UploadResponse) Message() string {
	switch {
	case r.Error != "":
		return "upload rejected"
	case r.created:
		return "dataset created"
	default:
		return "dataset found"
	}
}

func toUploadResponse(res usecase.UploadResult) UploadResponse {
	resp := UploadResponse{
		DatasetID:        res.DatasetID,
		FileName:         res.FileName,
		Columns:          res.Columns,
		DefaultSelection: res.DefaultSelection,
		PreviewRows:      res.PreviewRows,
		Rows:             res.Rows,
		CacheHit:         res.CacheHit,
		Error:            res.Error,
		ErrorKind:        res.ErrorKind,
	}

	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	if resp.DefaultSelection == nil {
		resp.DefaultSelection = []string{}
	}
	if resp.PreviewRows == nil {
		resp.PreviewRows = []map[string]entity.Value{}
	}
	return resp
}

type ChartsResponse struct {
	DatasetID string                     `json:"dataset_id"`
	Columns   []string                   `json:"columns"`
	Stats     []entity.ColumnStatsResult `json:"stats"`
	Bar       entity.Figure              `json:"bar"`
	Line      entity.Figure              `json:"line"`
	Scatter   entity.Figure              `json:"scatter"`
	Pie       entity.Figure              `json:"pie"`
}

type StatsResponse struct {
	DatasetID string                     `json:"dataset_id"`
	Columns   []string                   `json:"columns"`
	Stats     []entity.ColumnStatsResult `json:"stats"`
}

// DownloadResponse is written raw by the router, not wrapped in the envelope.
type DownloadResponse struct {
	fileName    string
	contentType string
	body        []byte
}

func (d DownloadResponse) ContentType() string { return d.contentType }
func (d DownloadResponse) FileName() string    { return d.fileName }
func (d DownloadResponse) Body() []byte        { return d.body }

type DeleteResponse struct{}

func (DeleteResponse) StatusCode() int {
	return http.StatusNoContent
}
