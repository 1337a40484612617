package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hubenschmidt/whisperstream/internal/stream"
)

// outputFormatter turns a stream.Segment into the wire JSON line, enforcing
// non-overlapping start times across the connection's lifetime (the
// recognizer's own [start,end] pairs can differ from the previous segment's
// end by small amounts).
type outputFormatter struct {
	lastEnd  *float64
	language string
}

func newOutputFormatter(lan, task string) *outputFormatter {
	language := lan
	if lan == "" || lan == "auto" || task == "translate" {
		language = "en"
	}
	return &outputFormatter{language: language}
}

type wireSegment struct {
	Language string `json:"language"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Text     string `json:"text"`
}

// format renders seg as a JSON line, or "" when seg carries no text.
func (f *outputFormatter) format(seg stream.Segment) string {
	text := strings.TrimSpace(seg.Text)
	if seg.Start == nil || text == "" {
		slog.Debug("no text in this segment")
		return ""
	}

	beg := *seg.Start
	end := *seg.End
	if f.lastEnd != nil && beg < *f.lastEnd {
		beg = *f.lastEnd
	}
	f.lastEnd = &end

	out := wireSegment{
		Language: f.language,
		Start:    fmt.Sprintf("%.3f", beg),
		End:      fmt.Sprintf("%.3f", end),
		Text:     text,
	}
	data, err := json.Marshal(out)
	if err != nil {
		slog.Error("marshal output segment", "error", err)
		return ""
	}
	return string(data)
}
