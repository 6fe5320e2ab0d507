package exporter

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-maker/internal/types"
)

var fixtureTime = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

type fakePrinter struct {
	err   error
	calls int
	mu    sync.Mutex
}

func (f *fakePrinter) PrintPDF(_ context.Context, html string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 " + html[:15]), nil
}

type memSink struct {
	mu    sync.Mutex
	items map[string][]byte
	types map[string]string
}

func newMemSink() *memSink {
	return &memSink{items: map[string][]byte{}, types: map[string]string{}}
}

func (m *memSink) Put(_ context.Context, name string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[name] = data
	m.types[name] = contentType
	return "mem://" + name, nil
}

func namedCV(t *testing.T) types.CV {
	t.Helper()
	cv := types.NewDefaultCV(fixtureTime)
	h, _ := cv.Header()
	h.Fields[0].Value = "Jane Doe"
	s, _ := cv.SectionOfType(types.SectionHeader)
	require.True(t, cv.UpdateSection(s.ID, h, fixtureTime))
	return cv
}

func TestParseFormats(t *testing.T) {
	all, err := ParseFormats(nil)
	require.NoError(t, err)
	assert.Equal(t, AllFormats, all)

	got, err := ParseFormats([]string{"PDF", " docx", "pdf"})
	require.NoError(t, err)
	assert.Equal(t, []Format{FormatPDF, FormatDOCX}, got)

	_, err = ParseFormats([]string{"odt"})
	assert.ErrorContains(t, err, `unsupported export format "odt"`)
}

func TestExporter_Render(t *testing.T) {
	printer := &fakePrinter{}
	e := New(newMemSink(), printer)

	artifacts, err := e.Render(context.Background(), namedCV(t), AllFormats)
	require.NoError(t, err)
	require.Len(t, artifacts, 3)

	assert.Equal(t, "Jane_Doe_CV.html", artifacts[0].Name)
	assert.Contains(t, string(artifacts[0].Data), "<h1 class=\"cv-name\">Jane Doe</h1>")
	assert.Equal(t, "Jane_Doe_CV.pdf", artifacts[1].Name)
	assert.Equal(t, "%PDF-1.7 <!DOCTYPE html>", string(artifacts[1].Data))
	assert.Equal(t, "Jane_Doe_CV.docx", artifacts[2].Name)
	assert.Equal(t, "PK", string(artifacts[2].Data[:2]))
	assert.Equal(t, 1, printer.calls)
}

func TestExporter_RenderWithoutPrinter(t *testing.T) {
	e := New(newMemSink(), nil)

	_, err := e.Render(context.Background(), namedCV(t), []Format{FormatDOCX, FormatPDF})
	assert.ErrorContains(t, err, "pdf export requires a browser printer")

	artifacts, err := e.Render(context.Background(), namedCV(t), []Format{FormatDOCX})
	require.NoError(t, err)
	assert.Len(t, artifacts, 1)
}

func TestExporter_Export(t *testing.T) {
	sink := newMemSink()
	e := New(sink, &fakePrinter{}, WithClock(func() time.Time { return fixtureTime }))

	keys, err := e.Export(context.Background(), namedCV(t), []Format{FormatDOCX, FormatHTML})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"mem://Jane_Doe_CV-20240501-123000.docx",
		"mem://Jane_Doe_CV-20240501-123000.html",
	}, keys)
	assert.Equal(t, FormatDOCX.ContentType(), sink.types["Jane_Doe_CV-20240501-123000.docx"])
	assert.Equal(t, "text/html; charset=utf-8", sink.types["Jane_Doe_CV-20240501-123000.html"])
}

func TestExporter_ExportPrinterFailure(t *testing.T) {
	sink := newMemSink()
	e := New(sink, &fakePrinter{err: errors.New("browser crashed")})

	_, err := e.Export(context.Background(), namedCV(t), AllFormats)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render pdf")
	assert.Empty(t, sink.items, "nothing is stored when rendering fails")
}

func TestExporter_ExportWithoutSink(t *testing.T) {
	_, err := New(nil, nil).Export(context.Background(), namedCV(t), []Format{FormatHTML})
	assert.ErrorContains(t, err, "no artifact sink configured")
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	sink, err := NewDirSink(dir)
	require.NoError(t, err)

	path, err := sink.Put(context.Background(), "../escape.html", []byte("<p>hi</p>"), "text/html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(data))
}

type fakePutter struct {
	bucket, name, contentType string
	body                      []byte
	err                       error
}

func (f *fakePutter) PutObject(_ context.Context, bucket, name string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.bucket, f.name, f.contentType, f.body = bucket, name, opts.ContentType, body
	return minio.UploadInfo{Bucket: bucket, Key: name, Size: size}, nil
}

func TestMinIOSink_Put(t *testing.T) {
	putter := &fakePutter{}
	sink := &MinIOSink{client: putter, bucket: "cv-exports"}

	key, err := sink.Put(context.Background(), "cv.pdf", []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "cv-exports/cv.pdf", key)
	assert.Equal(t, "cv-exports", putter.bucket)
	assert.Equal(t, "application/pdf", putter.contentType)
	assert.Equal(t, []byte("%PDF"), putter.body)

	putter.err = errors.New("access denied")
	_, err = sink.Put(context.Background(), "cv.pdf", nil, "application/pdf")
	assert.ErrorContains(t, err, "access denied")
}
