package demo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
)

// fakeService 模拟转写服务，记录收到的文件
type fakeService struct {
	mu        sync.Mutex
	filenames []string
	payloads  [][]byte
	fail      bool
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"detail":"missing file"}`, http.StatusUnprocessableEntity)
		return
	}
	defer file.Close()
	data, _ := io.ReadAll(file)

	f.mu.Lock()
	f.filenames = append(f.filenames, header.Filename)
	f.payloads = append(f.payloads, data)
	fail := f.fail
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail":"Format audio non supporté (wav ou mp3 uniquement)."}`)
		return
	}
	json.NewEncoder(w).Encode(models.Transcription{
		LanguageDetected: "fr",
		Segments: []models.TranscriptSegment{
			{Start: 0, End: 2.44, Text: "Bonjour"},
			{Start: 2.44, End: 5.06, Text: "à tous."},
		},
	})
}

func (f *fakeService) last() (string, []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.filenames) == 0 {
		return "", nil
	}
	return f.filenames[len(f.filenames)-1], f.payloads[len(f.payloads)-1]
}

func newFakeService(t *testing.T) (*fakeService, *Client) {
	t.Helper()
	svc := &fakeService{}
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	return svc, NewClient(srv.URL + "/transcribe")
}

// writeSampleDir 创建样本目录，transcripts 为 nil 时不写参考文件
func writeSampleDir(t *testing.T, files []string, transcripts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("audio:"+name), 0644))
	}
	if transcripts != nil {
		data, err := json.Marshal(transcripts)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "transcripts.json"), data, 0644))
	}
	return dir
}
