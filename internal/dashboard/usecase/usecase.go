package usecase

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
	"github.com/shandysiswandi/godash/internal/dashboard/pipeline"
	"github.com/shandysiswandi/godash/internal/pkg/pkgerror"
	"github.com/shandysiswandi/godash/internal/pkg/pkglog"
	"github.com/shandysiswandi/godash/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/godash/internal/pkg/pkguid"
)

const (
	DefaultPreviewRows = 5
	chartWorkers       = 5
)

type Store interface {
	Save(ctx context.Context, ds entity.Dataset) error
	Get(ctx context.Context, id string) (entity.Dataset, error)
	Delete(ctx context.Context, id string) error
	// FindByHash returns the ID of the latest dataset with this content hash.
	FindByHash(ctx context.Context, hash string) (string, error)
	// BindSession points sessionID at datasetID and returns the previous
	// binding, or "" when there was none.
	BindSession(ctx context.Context, sessionID, datasetID string) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.DatasetReleasedEvent) error
}

type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store       Store
	Events      EventPublisher
	Runner      Runner
	Clock       Clock
	ID          pkguid.StringID
	DatasetID   pkguid.StringID
	Limits      pipeline.Limits
	PreviewRows int
}

type Usecase struct {
	store       Store
	events      EventPublisher
	runner      Runner
	clock       Clock
	id          pkguid.StringID
	datasetID   pkguid.StringID
	limits      pipeline.Limits
	previewRows int
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	datasetID := dep.DatasetID
	if datasetID == nil {
		datasetID = dep.ID
	}

	preview := dep.PreviewRows
	if preview <= 0 {
		preview = DefaultPreviewRows
	}

	return &Usecase{
		store:       dep.Store,
		events:      dep.Events,
		runner:      dep.Runner,
		clock:       clock,
		id:          dep.ID,
		datasetID:   datasetID,
		limits:      dep.Limits,
		previewRows: preview,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Upload decodes and parses a CSV upload and stores it as a new dataset.
// Decoding and parsing failures are reported in the result, not as an error.
func (u *Usecase) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	if u.store == nil || u.datasetID == nil {
		return UploadResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	data, err := u.read(in)
	if err != nil {
		return failSoft(ctx, in.FileName, err), nil
	}

	hash := contentHash(data)
	table, hit, err := u.cachedTable(ctx, hash)
	if err != nil {
		return UploadResult{}, err
	}

	if table == nil {
		table, err = pipeline.Parse(data)
		if err != nil {
			return failSoft(ctx, in.FileName, err), nil
		}
	}

	// A header without data rows is as unusable as no input at all.
	if table.IsEmpty() || table.NumRows() == 0 {
		return UploadResult{Error: MessageEmptyUpload, ErrorKind: ErrorKindEmpty}, nil
	}

	ds := entity.Dataset{
		ID:        u.datasetID.Generate(),
		Hash:      hash,
		FileName:  in.FileName,
		Table:     table,
		CreatedAt: u.clock.Now(),
	}
	if err := u.store.Save(ctx, ds); err != nil {
		return UploadResult{}, normalizeErr(err)
	}

	if in.SessionID != "" {
		u.rebind(ctx, in.SessionID, ds.ID)
	}

	slog.InfoContext(ctx, "dataset stored", "dataset_id", ds.ID, "rows", table.NumRows(), "cache_hit", hit)

	result := u.summary(ds)
	result.CacheHit = hit
	return result, nil
}

func (u *Usecase) Dataset(ctx context.Context, id string) (UploadResult, error) {
	ds, err := u.load(ctx, id)
	if err != nil {
		return UploadResult{}, err
	}

	return u.summary(ds), nil
}

// Charts computes statistics plus the four chart projections in parallel over
// the stored table. Bar, line and stats see the selection as requested, so
// unknown names still show in titles and get a "No statistics" entry; scatter
// and pie only see the validated columns.
func (u *Usecase) Charts(ctx context.Context, id string, selection []string) (ChartsResult, error) {
	ds, err := u.load(ctx, id)
	if err != nil {
		return ChartsResult{}, err
	}

	cols := pipeline.Validate(ds.Table, selection)
	out := ChartsResult{DatasetID: ds.ID, Columns: cols}

	err = pkgroutine.Fanout(ctx, chartWorkers,
		func(context.Context) error {
			out.Stats = pipeline.ComputeStats(ds.Table, selection)
			return nil
		},
		func(context.Context) error {
			out.Bar = pipeline.ProjectBar(ds.Table, selection)
			return nil
		},
		func(context.Context) error {
			out.Line = pipeline.ProjectLine(ds.Table, selection)
			return nil
		},
		func(context.Context) error {
			out.Scatter = pipeline.ProjectScatter(ds.Table, cols)
			return nil
		},
		func(context.Context) error {
			out.Pie = pipeline.ProjectPie(ds.Table, cols)
			return nil
		},
	)
	if err != nil {
		return ChartsResult{}, normalizeErr(err)
	}

	return out, nil
}

func (u *Usecase) Stats(ctx context.Context, id string, selection []string) (StatsResult, error) {
	ds, err := u.load(ctx, id)
	if err != nil {
		return StatsResult{}, err
	}

	cols := pipeline.Validate(ds.Table, selection)
	return StatsResult{
		DatasetID: ds.ID,
		Columns:   cols,
		Stats:     pipeline.ComputeStats(ds.Table, selection),
	}, nil
}

func (u *Usecase) Download(ctx context.Context, id string, format DownloadFormat) (DownloadResult, error) {
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return DownloadResult{}, pkgerror.NewInvalidInput(fmt.Errorf("unsupported download format %q", format))
	}

	ds, err := u.load(ctx, id)
	if err != nil {
		return DownloadResult{}, err
	}

	if format == FormatXLSX {
		data, err := pipeline.EncodeXLSX(ds.Table)
		if err != nil {
			return DownloadResult{}, pkgerror.NewServer(err)
		}
		return DownloadResult{FileName: pipeline.XLSXFileName, ContentType: pipeline.XLSXContentType, Data: data}, nil
	}

	data, err := pipeline.EncodeCSV(ds.Table)
	if err != nil {
		return DownloadResult{}, pkgerror.NewServer(err)
	}
	return DownloadResult{FileName: pipeline.CSVFileName, ContentType: pipeline.CSVContentType, Data: data}, nil
}

func (u *Usecase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return pkgerror.NewInvalidInput(errors.New("dataset id is required"))
	}

	if err := u.store.Delete(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func (u *Usecase) read(in UploadInput) ([]byte, error) {
	if in.Raw != nil {
		if err := pipeline.CheckRaw(in.FileName, in.Raw, u.limits); err != nil {
			return nil, err
		}
		return in.Raw, nil
	}

	return pipeline.Decode(entity.UploadPayload{Content: in.Content, FileName: in.FileName}, u.limits)
}

// cachedTable returns the parsed table of a stored dataset with the same
// content hash. A stale hash entry counts as a miss.
func (u *Usecase) cachedTable(ctx context.Context, hash string) (*entity.Table, bool, error) {
	id, err := u.store.FindByHash(ctx, hash)
	if errors.Is(err, pkgerror.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, normalizeErr(err)
	}

	ds, err := u.store.Get(ctx, id)
	if errors.Is(err, pkgerror.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, normalizeErr(err)
	}

	return ds.Table, true, nil
}

// rebind moves the session to datasetID and releases what it pointed at
// before. Failures only cost memory until the TTL or LRU evicts the dataset.
func (u *Usecase) rebind(ctx context.Context, sessionID, datasetID string) {
	prev, err := u.store.BindSession(ctx, sessionID, datasetID)
	if err != nil {
		slog.WarnContext(ctx, "failed to bind session", "session_id", sessionID, "dataset_id", datasetID, "error", err)
		return
	}
	if prev == "" || prev == datasetID || u.events == nil {
		return
	}

	event := entity.DatasetReleasedEvent{DatasetID: prev, SessionID: sessionID}
	if u.id != nil {
		event.EventID = u.id.Generate()
	}

	publish := func(ctx context.Context) error {
		if err := u.events.Publish(ctx, event); err != nil {
			slog.WarnContext(ctx, "failed to publish release", "dataset_id", prev, "event_id", event.EventID, "error", err)
			return err
		}
		return nil
	}

	// The request context ends with the response; the release must not.
	detached := pkglog.DetachedContext(ctx)
	if u.runner == nil {
		_ = publish(detached)
		return
	}
	u.runner.Go(detached, publish)
}

func (u *Usecase) load(ctx context.Context, id string) (entity.Dataset, error) {
	if id == "" {
		return entity.Dataset{}, pkgerror.NewInvalidInput(errors.New("dataset id is required"))
	}

	ds, err := u.store.Get(ctx, id)
	if err != nil {
		return entity.Dataset{}, mapStoreErr(err)
	}
	return ds, nil
}

func (u *Usecase) summary(ds entity.Dataset) UploadResult {
	cols := ds.Table.Columns()
	return UploadResult{
		DatasetID:        ds.ID,
		FileName:         ds.FileName,
		Columns:          cols,
		DefaultSelection: cols[:1],
		PreviewRows:      ds.Table.Head(u.previewRows),
		Rows:             ds.Table.NumRows(),
	}
}

func contentHash(data []byte) string {
	sum := xxh3.Hash128(data).Bytes()
	return hex.EncodeToString(sum[:])
}

func failSoft(ctx context.Context, fileName string, err error) UploadResult {
	slog.InfoContext(ctx, "upload rejected", "file_name", fileName, "error", err)
	return UploadResult{Error: messageErrorPrefix + err.Error(), ErrorKind: kindOf(err)}
}

func kindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, pipeline.ErrUnsupportedFormat):
		return ErrorKindFormat
	case errors.Is(err, pipeline.ErrPayloadTooLarge):
		return ErrorKindTooLarge
	case errors.Is(err, pipeline.ErrDecode):
		return ErrorKindDecode
	default:
		return ErrorKindParse
	}
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewNotFound("dataset not found")
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
