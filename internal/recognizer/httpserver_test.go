package recognizer

import (
	"mime"
	"mime/multipart"
	"strings"
	"testing"
)

func TestBuildMultipartWAVIncludesPromptAndLanguage(t *testing.T) {
	body, contentType, err := buildMultipartWAV([]float32{0, 0.5, -0.5}, "hello context", "de", true)
	if err != nil {
		t.Fatalf("buildMultipartWAV: %v", err)
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	reader := multipart.NewReader(body, params["boundary"])

	fields := map[string]string{}
	var sawFile bool
	for {
		part, err := reader.NextPart()
		if err != nil {
			break
		}
		if part.FormName() == "file" {
			sawFile = true
			continue
		}
		buf := make([]byte, 256)
		n, _ := part.Read(buf)
		fields[part.FormName()] = string(buf[:n])
	}

	if !sawFile {
		t.Errorf("expected a file part in the multipart body")
	}
	if fields["prompt"] != "hello context" {
		t.Errorf("expected prompt field, got %q", fields["prompt"])
	}
	if fields["language"] != "de" {
		t.Errorf("expected language field 'de', got %q", fields["language"])
	}
	if fields["translate"] != "true" {
		t.Errorf("expected translate field 'true', got %q", fields["translate"])
	}
}

func TestBuildMultipartWAVOmitsAutoLanguage(t *testing.T) {
	_, contentType, err := buildMultipartWAV([]float32{0}, "", "auto", false)
	if err != nil {
		t.Fatalf("buildMultipartWAV: %v", err)
	}
	if !strings.Contains(contentType, "multipart/form-data") {
		t.Errorf("expected multipart content type, got %q", contentType)
	}
}
