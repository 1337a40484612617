package recognizer

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"sync"
	"time"
)

// HTTPServer posts multipart WAV audio to a whisper.cpp /inference-compatible
// server and decodes its JSON response. Useful when the recognizer runs as a
// sidecar process instead of being linked in-process.
type HTTPServer struct {
	url    string
	client *http.Client

	mu        sync.Mutex
	lang      string
	translate bool
}

// NewHTTPServer creates an HTTPServer backend pointed at the given
// /inference-compatible server URL, with a connection-pooled client.
func NewHTTPServer(url, lang string) *HTTPServer {
	return &HTTPServer{
		url:  url,
		lang: lang,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        4,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type whisperServerResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe posts samples as a WAV file to the server and returns its
// decoded segments.
func (h *HTTPServer) Transcribe(ctx context.Context, samples []float32, initPrompt string) (Result, error) {
	h.mu.Lock()
	translate := h.translate
	h.mu.Unlock()

	body, contentType, err := buildMultipartWAV(samples, initPrompt, h.lang, translate)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url+"/inference", body)
	if err != nil {
		return Result{}, fmt.Errorf("recognizer: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := h.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("recognizer: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("recognizer: status %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded whisperServerResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, fmt.Errorf("recognizer: decode response: %w", err)
	}

	words := make([]Word, len(decoded.Segments))
	ends := make([]float64, len(decoded.Segments))
	for i, s := range decoded.Segments {
		words[i] = Word{Start: s.Start, End: s.End, Text: s.Text}
		ends[i] = s.End
	}
	return Result{words: words, segmentEnds: ends}, nil
}

func (h *HTTPServer) Words(res Result) []Word          { return res.words }
func (h *HTTPServer) SegmentEnds(res Result) []float64 { return res.segmentEnds }
func (h *HTTPServer) Separator() string                { return " " }
func (h *HTTPServer) SetUseVAD(bool)                   {}

func (h *HTTPServer) SetTranslate(v bool) {
	h.mu.Lock()
	h.translate = v
	h.mu.Unlock()
}

func buildMultipartWAV(samples []float32, initPrompt, lang string, translate bool) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, "", fmt.Errorf("recognizer: create form file: %w", err)
	}
	if _, err := part.Write(samplesToWAV(samples, 16000)); err != nil {
		return nil, "", fmt.Errorf("recognizer: write wav data: %w", err)
	}
	if lang != "" && lang != "auto" {
		if err := writer.WriteField("language", lang); err != nil {
			return nil, "", fmt.Errorf("recognizer: write language field: %w", err)
		}
	}
	if initPrompt != "" {
		if err := writer.WriteField("prompt", initPrompt); err != nil {
			return nil, "", fmt.Errorf("recognizer: write prompt field: %w", err)
		}
	}
	if translate {
		if err := writer.WriteField("translate", "true"); err != nil {
			return nil, "", fmt.Errorf("recognizer: write translate field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("recognizer: close writer: %w", err)
	}
	return &body, writer.FormDataContentType(), nil
}

func samplesToWAV(samples []float32, sampleRate int) []byte {
	dataLen := len(samples) * 2
	totalLen := 44 + dataLen

	buf := make([]byte, totalLen)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(totalLen-8))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1)
	binary.LittleEndian.PutUint16(buf[22:24], 1)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*2))
	binary.LittleEndian.PutUint16(buf[32:34], 2)
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))

	for i, s := range samples {
		clamped := max(float32(-1.0), min(float32(1.0), s))
		val := int16(clamped * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[44+i*2:], uint16(val))
	}
	return buf
}
