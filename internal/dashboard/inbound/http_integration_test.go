package inbound

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/godash/internal/dashboard/event"
	"github.com/shandysiswandi/godash/internal/dashboard/store"
	"github.com/shandysiswandi/godash/internal/dashboard/usecase"
	"github.com/shandysiswandi/godash/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/godash/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/godash/internal/pkg/pkguid"
)

const salesCSV = "Month,Sales,Profit,Region\n" +
	"Jan,10,2,North\n" +
	"Feb,20,4,South\n" +
	"Mar,30,6,North\n"

type envelope[T any] struct {
	Message string         `json:"message"`
	Data    T              `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

type testUpload struct {
	DatasetID        string            `json:"dataset_id"`
	Columns          []string          `json:"columns"`
	DefaultSelection []string          `json:"default_selection"`
	PreviewRows      []map[string]any  `json:"preview_rows"`
	CacheHit         bool              `json:"cache_hit"`
	Error            string            `json:"error"`
	ErrorKind        usecase.ErrorKind `json:"error_kind"`
}

type testFigure struct {
	Title       string `json:"title"`
	Placeholder bool   `json:"placeholder"`
	Series      []struct {
		Name string `json:"name"`
		X    []any  `json:"x"`
		Y    []any  `json:"y"`
	} `json:"series"`
}

type testCharts struct {
	Columns []string `json:"columns"`
	Stats   []struct {
		Column     string             `json:"column"`
		Applicable bool               `json:"applicable"`
		Message    string             `json:"message"`
		Stats      map[string]float64 `json:"stats"`
	} `json:"stats"`
	Bar     testFigure `json:"bar"`
	Scatter testFigure `json:"scatter"`
	Pie     testFigure `json:"pie"`
}

type testEnv struct {
	router  *pkgrouter.Router
	storage *store.InMemoryStore
	runner  *pkgroutine.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	runner := pkgroutine.NewManager(4)
	storage := store.NewInMemoryStore(16)
	bus := event.NewBus(8)
	consumer := event.NewReleaseConsumer(bus, event.StoreReleaser{Store: storage}, event.ConsumerConfig{
		Workers:     1,
		BaseBackoff: time.Millisecond,
	})
	consumer.Start()
	t.Cleanup(func() {
		_ = runner.Wait()
		_ = consumer.Stop(context.Background())
	})

	uc := usecase.New(usecase.Dependency{
		Store:  storage,
		Events: bus,
		Runner: runner,
		ID:     pkguid.NewUUID(),
	})

	router := pkgrouter.NewRouter(pkguid.NewUUID())
	RegisterHTTPEndpoint(router, uc)

	return &testEnv{router: router, storage: storage, runner: runner}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func jsonUpload(t *testing.T, env *testEnv, fileName, body, session string) (*httptest.ResponseRecorder, envelope[testUpload]) {
	t.Helper()

	payload, _ := json.Marshal(UploadRequest{
		Content:   "data:text/csv;base64," + base64.StdEncoding.EncodeToString([]byte(body)),
		FileName:  fileName,
		SessionID: session,
	})

	req := httptest.NewRequest(http.MethodPost, "/datasets", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(req)

	var out envelope[testUpload]
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&out); err != nil {
		t.Fatalf("decode upload response: %v (%s)", err, rec.Body.String())
	}
	return rec, out
}

func TestUploadChartsDownloadDelete(t *testing.T) {
	env := newTestEnv(t)

	rec, up := jsonUpload(t, env, "sales.csv", salesCSV, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected upload status: %d %s", rec.Code, rec.Body.String())
	}
	id := up.Data.DatasetID
	if id == "" || strings.Join(up.Data.Columns, ",") != "Month,Sales,Profit,Region" {
		t.Fatalf("unexpected upload data: %+v", up.Data)
	}
	if len(up.Data.PreviewRows) != 3 || up.Data.DefaultSelection[0] != "Month" {
		t.Fatalf("unexpected preview: %+v", up.Data)
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+id+"/charts?columns=Sales,Profit,nope", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected charts status: %d %s", rec.Code, rec.Body.String())
	}
	var charts envelope[testCharts]
	if err := json.NewDecoder(rec.Body).Decode(&charts); err != nil {
		t.Fatalf("decode charts: %v", err)
	}
	if strings.Join(charts.Data.Columns, ",") != "Sales,Profit" {
		t.Fatalf("unexpected columns: %v", charts.Data.Columns)
	}
	if charts.Data.Bar.Title != "Sales & Profit & nope by Month" || len(charts.Data.Bar.Series) != 2 {
		t.Fatalf("unexpected bar: %+v", charts.Data.Bar)
	}
	if x := charts.Data.Bar.Series[0].X; len(x) != 3 || x[0] != "Jan" {
		t.Fatalf("unexpected bar x: %v", x)
	}
	if y := charts.Data.Bar.Series[0].Y; y[2] != float64(30) {
		t.Fatalf("unexpected bar y: %v", y)
	}
	if charts.Data.Scatter.Title != "Scatter: Sales vs Profit" || charts.Data.Pie.Title != "Pie Chart: Sales" {
		t.Fatalf("unexpected titles: %q %q", charts.Data.Scatter.Title, charts.Data.Pie.Title)
	}
	if s := charts.Data.Stats[0]; !s.Applicable || s.Stats["mean"] != 20 || s.Stats["std"] != 10 || s.Stats["25%"] != 15 {
		t.Fatalf("unexpected stats: %+v", s)
	}
	if len(charts.Data.Stats) != 3 || charts.Data.Stats[2].Message != "No statistics for nope" {
		t.Fatalf("unexpected stats for unknown column: %+v", charts.Data.Stats)
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+id+"/stats?columns=Region", nil))
	var stats envelope[testCharts]
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if s := stats.Data.Stats[0]; s.Applicable || s.Message != "No statistics for Region" {
		t.Fatalf("unexpected region stats: %+v", s)
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+id+"/download", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != salesCSV {
		t.Fatalf("unexpected csv download: %d %q", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "dashboard_data.csv") {
		t.Fatalf("unexpected content disposition: %q", cd)
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+id+"/download?format=xlsx", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Disposition"), "dashboard_data.xlsx") {
		t.Fatalf("unexpected xlsx download: %d %v", rec.Code, rec.Header())
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+id+"/download?format=pdf", nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown format, got %d", rec.Code)
	}

	rec = env.do(httptest.NewRequest(http.MethodDelete, "/datasets/"+id, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected delete status: %d", rec.Code)
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+id, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestUploadFailSoft(t *testing.T) {
	env := newTestEnv(t)

	rec, out := jsonUpload(t, env, "sales.txt", salesCSV, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.HasPrefix(out.Data.Error, "Error: ") || out.Data.ErrorKind != usecase.ErrorKindFormat {
		t.Fatalf("unexpected error: %+v", out.Data)
	}
	if out.Data.DatasetID != "" || out.Data.Columns == nil || len(out.Data.Columns) != 0 {
		t.Fatalf("expected empty fields, got %+v", out.Data)
	}

	_, out = jsonUpload(t, env, "empty.csv", "\n\n", "")
	if out.Data.Error != usecase.MessageEmptyUpload {
		t.Fatalf("unexpected empty-file error: %q", out.Data.Error)
	}

	rec, out = jsonUpload(t, env, "header.csv", "Month,Sales\n", "")
	if rec.Code != http.StatusOK || out.Data.ErrorKind != usecase.ErrorKindEmpty || out.Data.DatasetID != "" {
		t.Fatalf("unexpected header-only upload: %d %+v", rec.Code, out.Data)
	}
	if n := env.storage.Len(); n != 0 {
		t.Fatalf("expected nothing stored, got %d", n)
	}
}

func TestUploadRejectsBadJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/datasets", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	if rec := env.do(req); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/datasets", strings.NewReader(`{"filename":"a.csv"}`))
	if rec := env.do(req); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func multipartUpload(t *testing.T, env *testEnv, session string) testUpload {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "sales.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(salesCSV)); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/datasets", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Session-ID", session)
	rec := env.do(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d %s", rec.Code, rec.Body.String())
	}

	var out envelope[testUpload]
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode upload: %v", err)
	}
	return out.Data
}

func TestMultipartUploadReleasesPreviousSessionDataset(t *testing.T) {
	env := newTestEnv(t)

	first := multipartUpload(t, env, "s1")
	second := multipartUpload(t, env, "s1")
	if !second.CacheHit || first.DatasetID == second.DatasetID {
		t.Fatalf("expected cache hit with a new id: %+v %+v", first, second)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if env.storage.Len() == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if rec := env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+first.DatasetID, nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("expected released dataset to be gone, got %d", rec.Code)
	}
	if rec := env.do(httptest.NewRequest(http.MethodGet, "/datasets/"+second.DatasetID, nil)); rec.Code != http.StatusOK {
		t.Fatalf("expected current dataset to stay, got %d", rec.Code)
	}
}
