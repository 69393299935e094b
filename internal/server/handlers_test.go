package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/asr"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
)

type fakeRecognizer struct {
	mu       sync.Mutex
	err      error
	paths    []string
	contents []string
	opts     []asr.DecodeOptions
}

func (f *fakeRecognizer) Transcribe(ctx context.Context, audioPath string, opts asr.DecodeOptions) (*models.Transcription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, _ := os.ReadFile(audioPath)
	f.paths = append(f.paths, audioPath)
	f.contents = append(f.contents, string(data))
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Transcription{
		LanguageDetected: "fr",
		Segments: []models.TranscriptSegment{
			{Start: 0.0, End: 2.4, Text: "Bonjour à tous."},
			{Start: 2.4, End: 4.1, Text: "Merci."},
		},
	}, nil
}

func (f *fakeRecognizer) Name() string { return "fake" }
func (f *fakeRecognizer) Close() error { return nil }

func newTestServer(t *testing.T, rec *fakeRecognizer) *Server {
	t.Helper()
	cfg := models.NewDefaultServerConfig()
	cfg.TempDir = t.TempDir()
	return New(cfg, rec)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func postFile(t *testing.T, s *Server, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, FileField, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func tempDirEntries(t *testing.T, s *Server) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(s.cfg.TempDir)
	require.NoError(t, err)
	return entries
}

func TestIsSupportedAudio(t *testing.T) {
	assert.True(t, IsSupportedAudio("a.wav"))
	assert.True(t, IsSupportedAudio("B.MP3"))
	assert.True(t, IsSupportedAudio("dir/clip.Wav"))
	assert.False(t, IsSupportedAudio("clip.TXT"))
	assert.False(t, IsSupportedAudio("clip.flac"))
	assert.False(t, IsSupportedAudio("wav"))
}

func TestTranscribeSuccess(t *testing.T) {
	rec := &fakeRecognizer{}
	s := newTestServer(t, rec)

	w := postFile(t, s, "a.wav", []byte("RIFF-audio"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got models.Transcription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "fr", got.LanguageDetected)
	require.Len(t, got.Segments, 2)
	assert.Equal(t, "Bonjour à tous.", got.Segments[0].Text)
	assert.Equal(t, 2.4, got.Segments[0].End)

	require.Len(t, rec.paths, 1)
	assert.True(t, strings.HasSuffix(rec.paths[0], "_a.wav"))
	assert.Equal(t, "RIFF-audio", rec.contents[0])
	assert.Equal(t, asr.DecodeOptions{BeamSize: 5, Language: "fr", ConditionOnPreviousText: false}, rec.opts[0])

	assert.Empty(t, tempDirEntries(t, s))
}

func TestTranscribeUppercaseExtension(t *testing.T) {
	rec := &fakeRecognizer{}
	s := newTestServer(t, rec)

	w := postFile(t, s, "B.MP3", []byte("ID3"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTranscribeUnsupportedFormat(t *testing.T) {
	rec := &fakeRecognizer{}
	s := newTestServer(t, rec)

	w := postFile(t, s, "clip.TXT", []byte("texte"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var got models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Format audio non supporté (wav ou mp3 uniquement).", got.Detail)
	assert.Empty(t, rec.paths)
	assert.Empty(t, tempDirEntries(t, s))
}

func TestTranscribeRecognizerFailure(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("fichier corrompu")}
	s := newTestServer(t, rec)

	w := postFile(t, s, "a.wav", []byte("pas un wav"))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var got models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Internal Server Error", got.Detail)
	assert.Equal(t, 1, s.ErrorStats().Total("transcribe"))

	// 失败路径同样清理临时文件
	assert.Empty(t, tempDirEntries(t, s))
}

func TestTranscribeMissingField(t *testing.T) {
	s := newTestServer(t, &fakeRecognizer{})

	body, contentType := multipartBody(t, "audio", "a.wav", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTranscribeMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &fakeRecognizer{})

	req := httptest.NewRequest(http.MethodGet, "/transcribe", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestTranscribeConcurrentUploads(t *testing.T) {
	rec := &fakeRecognizer{}
	s := newTestServer(t, rec)

	var wg sync.WaitGroup
	codes := make([]int, 8)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = postFile(t, s, "same.wav", []byte("data")).Code
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	seen := map[string]bool{}
	for _, p := range rec.paths {
		seen[p] = true
	}
	assert.Len(t, seen, len(codes), "每个请求使用独立的临时文件名")
	assert.Empty(t, tempDirEntries(t, s))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeRecognizer{err: errors.New("boom")})
	postFile(t, s, "a.wav", []byte("x"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	var got HealthResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, "fake", got.Backend)
	assert.Equal(t, 1, got.Errors["transcribe"]["boom"])
}

type deadRecognizer struct{ fakeRecognizer }

func (d *deadRecognizer) Alive() bool { return false }

func TestHealthReportsDeadBackend(t *testing.T) {
	cfg := models.NewDefaultServerConfig()
	cfg.TempDir = t.TempDir()
	s := New(cfg, &deadRecognizer{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var got HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "unavailable", got.Status)
}
