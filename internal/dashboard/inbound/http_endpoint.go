package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/shandysiswandi/godash/internal/dashboard/usecase"
	"github.com/shandysiswandi/godash/internal/pkg/pkgerror"
	"github.com/shandysiswandi/godash/internal/pkg/pkgrouter"
)

const (
	sessionHeader    = "X-Session-ID"
	filePartName     = "file"
	sessionFieldName = "session_id"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	in, err := readUpload(r)
	if err != nil {
		return nil, err
	}

	if in.SessionID == "" {
		in.SessionID = strings.TrimSpace(r.Header.Get(sessionHeader))
	}

	result, err := h.uc.Upload(ctx, in)
	if err != nil {
		return nil, err
	}

	resp := toUploadResponse(result)
	resp.created = result.Error == ""
	return resp, nil
}

func (h *HTTPEndpoint) Dataset(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Dataset(ctx, datasetID(ctx))
	if err != nil {
		return nil, err
	}

	return toUploadResponse(result), nil
}

func (h *HTTPEndpoint) Charts(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Charts(ctx, datasetID(ctx), parseColumns(r))
	if err != nil {
		return nil, err
	}

	return ChartsResponse{
		DatasetID: result.DatasetID,
		Columns:   result.Columns,
		Stats:     result.Stats,
		Bar:       result.Bar,
		Line:      result.Line,
		Scatter:   result.Scatter,
		Pie:       result.Pie,
	}, nil
}

func (h *HTTPEndpoint) Stats(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Stats(ctx, datasetID(ctx), parseColumns(r))
	if err != nil {
		return nil, err
	}

	return StatsResponse{
		DatasetID: result.DatasetID,
		Columns:   result.Columns,
		Stats:     result.Stats,
	}, nil
}

func (h *HTTPEndpoint) Download(ctx context.Context, r *http.Request) (any, error) {
	format := usecase.DownloadFormat(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))))

	result, err := h.uc.Download(ctx, datasetID(ctx), format)
	if err != nil {
		return nil, err
	}

	return DownloadResponse{
		fileName:    result.FileName,
		contentType: result.ContentType,
		body:        result.Data,
	}, nil
}

func (h *HTTPEndpoint) Delete(ctx context.Context, r *http.Request) (any, error) {
	if err := h.uc.Delete(ctx, datasetID(ctx)); err != nil {
		return nil, err
	}

	return DeleteResponse{}, nil
}

func datasetID(ctx context.Context) string {
	return pkgrouter.GetParam(ctx, "id")
}

// parseColumns accepts ?columns=a,b as well as repeated ?columns= values.
func parseColumns(r *http.Request) []string {
	return pkgrouter.QueryList(r, "columns")
}

func readUpload(r *http.Request) (usecase.UploadInput, error) {
	if r.Body == nil {
		return usecase.UploadInput{}, pkgerror.NewInvalidInput(errors.New("empty request body"))
	}

	contentType := r.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil && strings.EqualFold(mediaType, "multipart/form-data") {
			return extractMultipartUpload(r)
		}
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return usecase.UploadInput{}, pkgerror.NewInvalidFormat()
	}
	if req.Content == "" {
		return usecase.UploadInput{}, pkgerror.NewInvalidInput(errors.New("content is required"))
	}

	return usecase.UploadInput{
		Content:   req.Content,
		FileName:  req.FileName,
		SessionID: strings.TrimSpace(req.SessionID),
	}, nil
}

func extractMultipartUpload(r *http.Request) (usecase.UploadInput, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return usecase.UploadInput{}, pkgerror.NewInvalidFormat()
	}

	var in usecase.UploadInput
	found := false
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return usecase.UploadInput{}, pkgerror.NewInvalidFormat()
		}

		switch part.FormName() {
		case filePartName:
			in.FileName = part.FileName()
			in.Raw, err = readPart(part)
			found = true
		case sessionFieldName:
			var v []byte
			v, err = readPart(part)
			in.SessionID = strings.TrimSpace(string(v))
		default:
			_ = part.Close()
		}
		if err != nil {
			return usecase.UploadInput{}, pkgerror.NewInvalidFormat()
		}
	}

	if !found {
		return usecase.UploadInput{}, pkgerror.NewInvalidInput(errors.New("file part is required"))
	}
	return in, nil
}

func readPart(part *multipart.Part) ([]byte, error) {
	defer func() { _ = part.Close() }()

	data, err := io.ReadAll(part)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}
