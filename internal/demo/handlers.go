package demo

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/models"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/scanner"
	"github.com/ccp-p/asr-media-cli/asr-fr-demo/pkg/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTitle 是页面标题
const PageTitle = "Démo transcription audio FR"

const (
	modeSamples    = "samples"
	modeUpload     = "upload"
	modeMicrophone = "microphone"
)

type modeLink struct {
	Label  string
	URL    string
	Active bool
}

type setView struct {
	Slug     string
	Name     string
	Files    []scanner.MediaFile
	Selected string
	AudioURL string
	MimeType string
}

type pageData struct {
	Title     string
	Modes     []modeLink
	Mode      string
	Set       *setView
	HasResult bool
	Lines     []string
	Reference string
	Error     string
	RateHint  int
}

// App 是交互式演示客户端的 Web 应用
type App struct {
	cfg    *models.DemoConfig
	client *Client
	sets   []*SampleSet
	tmpl   *template.Template
	router *mux.Router
}

// NewApp 创建 Web 应用并注册路由
func NewApp(cfg *models.DemoConfig, client *Client, sets []*SampleSet) (*App, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("解析页面模板失败: %w", err)
	}

	a := &App{cfg: cfg, client: client, sets: sets, tmpl: tmpl, router: mux.NewRouter()}

	a.router.HandleFunc("/", a.handleHome).Methods(http.MethodGet)
	a.router.HandleFunc("/samples/{set}", a.handleSamplePage).Methods(http.MethodGet)
	a.router.HandleFunc("/samples/{set}", a.handleSampleTranscribe).Methods(http.MethodPost)
	a.router.HandleFunc("/samples/{set}/audio/{name}", a.handleSampleAudio).Methods(http.MethodGet)
	a.router.HandleFunc("/upload", a.handleUploadPage).Methods(http.MethodGet)
	a.router.HandleFunc("/upload", a.handleUploadTranscribe).Methods(http.MethodPost)
	a.router.HandleFunc("/microphone", a.handleMicrophonePage).Methods(http.MethodGet)
	a.router.HandleFunc("/microphone/transcribe", a.handleMicrophoneTranscribe).Methods(http.MethodPost)

	return a, nil
}

// Handler 返回应用的 http.Handler
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) modes(active string) []modeLink {
	links := make([]modeLink, 0, len(a.sets)+2)
	for _, s := range a.sets {
		u := "/samples/" + url.PathEscape(s.Slug())
		links = append(links, modeLink{Label: "Samples " + s.Name(), URL: u, Active: u == active})
	}
	links = append(links,
		modeLink{Label: "Upload fichier", URL: "/upload", Active: active == "/upload"},
		modeLink{Label: "Microphone", URL: "/microphone", Active: active == "/microphone"},
	)
	return links
}

func (a *App) newPage(mode, active string) *pageData {
	return &pageData{Title: PageTitle, Modes: a.modes(active), Mode: mode, RateHint: a.cfg.RecordRateHint}
}

func (a *App) render(w http.ResponseWriter, code int, page *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := a.tmpl.ExecuteTemplate(w, "index.html", page); err != nil {
		utils.Error("渲染页面失败: %v", err)
	}
}

func (a *App) findSet(r *http.Request) *SampleSet {
	slug := mux.Vars(r)["set"]
	for _, s := range a.sets {
		if s.Slug() == slug {
			return s
		}
	}
	return nil
}

func (a *App) handleHome(w http.ResponseWriter, r *http.Request) {
	target := "/upload"
	if len(a.sets) > 0 {
		target = "/samples/" + url.PathEscape(a.sets[0].Slug())
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (a *App) samplePage(set *SampleSet, selected string) *pageData {
	files := set.Files()
	if selected == "" && len(files) > 0 {
		selected = files[0].Name
	}

	page := a.newPage(modeSamples, "/samples/"+url.PathEscape(set.Slug()))
	page.Set = &setView{
		Slug:     set.Slug(),
		Name:     set.Name(),
		Files:    files,
		Selected: selected,
		MimeType: mimeType(set.Extension()),
	}
	if selected != "" {
		page.Set.AudioURL = "/samples/" + url.PathEscape(set.Slug()) + "/audio/" + url.PathEscape(selected)
	}
	return page
}

func (a *App) handleSamplePage(w http.ResponseWriter, r *http.Request) {
	set := a.findSet(r)
	if set == nil {
		http.NotFound(w, r)
		return
	}
	a.render(w, http.StatusOK, a.samplePage(set, r.URL.Query().Get("sample")))
}

func (a *App) handleSampleTranscribe(w http.ResponseWriter, r *http.Request) {
	set := a.findSet(r)
	if set == nil {
		http.NotFound(w, r)
		return
	}

	name := r.FormValue("sample")
	page := a.samplePage(set, name)
	path, ok := set.Path(name)
	if !ok {
		page.Error = fmt.Sprintf("Sample inconnu: %s", name)
		a.render(w, http.StatusNotFound, page)
		return
	}

	utils.Info("转写样本 %s/%s", set.Name(), name)
	result, err := a.client.TranscribeFile(r.Context(), path)
	if err != nil {
		utils.Warn("样本转写失败 %s: %v", name, err)
		page.Error = errorMessage(err)
		a.render(w, http.StatusOK, page)
		return
	}

	page.HasResult = true
	page.Lines = SegmentLines(result.Segments)
	page.Reference = set.Reference(name)
	a.render(w, http.StatusOK, page)
}

func (a *App) handleSampleAudio(w http.ResponseWriter, r *http.Request) {
	set := a.findSet(r)
	if set == nil {
		http.NotFound(w, r)
		return
	}
	path, ok := set.Path(mux.Vars(r)["name"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", mimeType(filepath.Ext(path)))
	http.ServeFile(w, r, path)
}

func (a *App) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, http.StatusOK, a.newPage(modeUpload, "/upload"))
}

func (a *App) handleUploadTranscribe(w http.ResponseWriter, r *http.Request) {
	page := a.newPage(modeUpload, "/upload")

	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxUploadMB<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		page.Error = "Choisir un fichier audio (mp3/wav)"
		a.render(w, http.StatusBadRequest, page)
		return
	}
	defer file.Close()

	utils.Info("转写上传文件 %s (%s)", header.Filename, utils.FormatFileSize(header.Size))
	result, err := a.client.Transcribe(r.Context(), header.Filename, file)
	if err != nil {
		utils.Warn("上传文件转写失败 %s: %v", header.Filename, err)
		page.Error = errorMessage(err)
		a.render(w, http.StatusOK, page)
		return
	}

	page.HasResult = true
	page.Lines = SegmentLines(result.Segments)
	a.render(w, http.StatusOK, page)
}

func (a *App) handleMicrophonePage(w http.ResponseWriter, r *http.Request) {
	a.render(w, http.StatusOK, a.newPage(modeMicrophone, "/microphone"))
}

type microphoneResponse struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		utils.Error("JSON 序列化错误: %v", err)
	}
}

// handleMicrophoneTranscribe 接收浏览器采集的 float32 PCM，编码为 WAV 后转写
func (a *App) handleMicrophoneTranscribe(w http.ResponseWriter, r *http.Request) {
	rate := a.cfg.RecordRateHint
	if v := r.URL.Query().Get("rate"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, microphoneResponse{Error: "Fréquence d'échantillonnage invalide"})
			return
		}
		rate = n
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.cfg.MaxUploadMB<<20))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, microphoneResponse{Error: "Enregistrement trop volumineux"})
		return
	}
	samples, err := DecodeFloat32LE(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, microphoneResponse{Error: "Données audio invalides"})
		return
	}
	if len(samples) == 0 {
		writeJSON(w, http.StatusBadRequest, microphoneResponse{Error: "Enregistrement vide"})
		return
	}

	path, err := WriteRecording("", samples, rate)
	if err != nil {
		utils.Error("保存录音失败: %v", err)
		writeJSON(w, http.StatusInternalServerError, microphoneResponse{Error: err.Error()})
		return
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, microphoneResponse{Error: err.Error()})
		return
	}
	defer f.Close()

	utils.Info("转写麦克风录音: %d 个采样, %d Hz", len(samples), rate)
	result, err := a.client.Transcribe(r.Context(), RecordFileName, f)
	if err != nil {
		utils.Warn("录音转写失败: %v", err)
		writeJSON(w, http.StatusBadGateway, microphoneResponse{Error: errorMessage(err)})
		return
	}

	writeJSON(w, http.StatusOK, microphoneResponse{Text: result.FullText()})
}

// SegmentLines 把分段格式化为 "[start - end] text"
func SegmentLines(segments []models.TranscriptSegment) []string {
	lines := make([]string, len(segments))
	for i, seg := range segments {
		lines[i] = utils.FormatSegmentSpan(seg.Start, seg.End) + " " + seg.Text
	}
	return lines
}

func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return "Erreur API: " + err.Error()
}

func mimeType(ext string) string {
	switch strings.ToLower(ext) {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}
