package demo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientTranscribe(t *testing.T) {
	svc, client := newFakeService(t)

	result, err := client.Transcribe(context.Background(), "/some/dir/a.wav", strings.NewReader("RIFF"))
	require.NoError(t, err)
	assert.Equal(t, "fr", result.LanguageDetected)
	require.Len(t, result.Segments, 2)
	assert.Equal(t, "Bonjour à tous.", result.FullText())

	name, payload := svc.last()
	assert.Equal(t, "a.wav", name)
	assert.Equal(t, "RIFF", string(payload))
}

func TestClientTranscribeFile(t *testing.T) {
	svc, client := newFakeService(t)
	path := filepath.Join(t.TempDir(), "clip.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3"), 0644))

	_, err := client.TranscribeFile(context.Background(), path)
	require.NoError(t, err)

	name, payload := svc.last()
	assert.Equal(t, "clip.mp3", name)
	assert.Equal(t, "ID3", string(payload))

	_, err = client.TranscribeFile(context.Background(), filepath.Join(t.TempDir(), "absent.wav"))
	assert.Error(t, err)
}

func TestClientAPIError(t *testing.T) {
	svc, client := newFakeService(t)
	svc.fail = true

	_, err := client.Transcribe(context.Background(), "clip.txt", strings.NewReader("x"))
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, `Erreur API: {"detail":"Format audio non supporté (wav ou mp3 uniquement)."}`, err.Error())
}

func TestClientUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/transcribe")
	_, err := client.Transcribe(context.Background(), "a.wav", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, "Erreur API: "+err.Error(), errorMessage(err))
}
