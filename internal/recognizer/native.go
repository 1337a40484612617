// The whisper.cpp static library and headers must be available at link
// time via LIBRARY_PATH and C_INCLUDE_PATH; the bindings this file uses
// require cgo.

package recognizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Native runs inference in-process through the whisper.cpp CGO bindings.
// The model is loaded once and shared; each Transcribe call opens a fresh
// context, since whisper.cpp contexts are not safe for concurrent reuse.
// That's fine here: the server handles one client at a time.
type Native struct {
	mu        sync.Mutex
	model     whisperlib.Model
	lang      string
	translate bool
}

// NewNative loads the whisper.cpp model at modelPath and returns a Native
// recognizer configured for the given language.
func NewNative(modelPath, lang string) (*Native, error) {
	if modelPath == "" {
		return nil, errors.New("recognizer: native backend requires a model path")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("recognizer: load model %q: %w", modelPath, err)
	}
	return &Native{model: model, lang: lang}, nil
}

// Close releases the underlying whisper model.
func (n *Native) Close() error {
	if n.model != nil {
		return n.model.Close()
	}
	return nil
}

// Transcribe runs whisper.cpp inference over samples, using initPrompt as
// the model's linguistic context.
func (n *Native) Transcribe(ctx context.Context, samples []float32, initPrompt string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	n.mu.Lock()
	lang, translate := n.lang, n.translate
	n.mu.Unlock()

	wctx, err := n.model.NewContext()
	if err != nil {
		return Result{}, fmt.Errorf("recognizer: create context: %w", err)
	}
	if err := wctx.SetLanguage(lang); err != nil {
		return Result{}, fmt.Errorf("recognizer: set language %q: %w", lang, err)
	}
	wctx.SetTranslate(translate)
	if initPrompt != "" {
		wctx.SetInitialPrompt(initPrompt)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return Result{}, fmt.Errorf("recognizer: process audio: %w", err)
	}

	var words []Word
	var ends []float64
	for {
		seg, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("recognizer: read segment: %w", err)
		}
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		words = append(words, Word{
			Start: seg.Start.Seconds(),
			End:   seg.End.Seconds(),
			Text:  text,
		})
		ends = append(ends, seg.End.Seconds())
	}

	return Result{words: words, segmentEnds: ends}, nil
}

func (n *Native) Words(res Result) []Word          { return res.words }
func (n *Native) SegmentEnds(res Result) []float64 { return res.segmentEnds }
func (n *Native) Separator() string                { return " " }
func (n *Native) SetUseVAD(bool)                   {}

func (n *Native) SetTranslate(v bool) {
	n.mu.Lock()
	n.translate = v
	n.mu.Unlock()
}
