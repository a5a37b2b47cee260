package miniaudio

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/koscakluka/innervoice/core/audio"
	"github.com/koscakluka/innervoice/core/dialogue"
)

func writeMonoWAV(t *testing.T, path string, samples ...int16) {
	t.Helper()

	var data bytes.Buffer
	binary.Write(&data, binary.LittleEndian, samples)

	var file bytes.Buffer
	file.WriteString("RIFF")
	binary.Write(&file, binary.LittleEndian, uint32(4+8+16+8+data.Len()))
	file.WriteString("WAVE")
	file.WriteString("fmt ")
	for _, field := range []any{
		uint32(16), uint16(1), uint16(1), uint32(audio.DefaultSampleRate),
		uint32(audio.DefaultSampleRate * 2), uint16(2), uint16(16),
	} {
		binary.Write(&file, binary.LittleEndian, field)
	}
	file.WriteString("data")
	binary.Write(&file, binary.LittleEndian, uint32(data.Len()))
	file.Write(data.Bytes())

	if err := os.WriteFile(path, file.Bytes(), 0o644); err != nil {
		t.Fatalf("expected to write %s, got %v", path, err)
	}
}

func TestLoadCuesSkipsMissingAndBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeMonoWAV(t, filepath.Join(dir, audio.CueClick.FileName()), 100, -100)
	if err := os.WriteFile(filepath.Join(dir, audio.CueIntellect.FileName()), []byte("not a wav"), 0o644); err != nil {
		t.Fatalf("expected to write broken file, got %v", err)
	}

	cues := loadCues(dir, audio.GetDefaultEncodingInfo(), slog.New(slog.DiscardHandler))

	if len(cues) != 1 {
		t.Fatalf("expected only the click cue, got %d cues", len(cues))
	}
	click, ok := cues[audio.CueClick]
	if !ok {
		t.Fatalf("expected click cue to be loaded")
	}
	// mono spread over both channels
	if len(click) != 2*audio.GetDefaultEncodingInfo().BytesPerFrame() {
		t.Fatalf("expected two stereo frames, got %d bytes", len(click))
	}
}

func TestPlayUnknownCategoryIsNoop(t *testing.T) {
	player := &CuePlayer{cues: map[audio.CueName][]byte{}, logger: slog.New(slog.DiscardHandler)}

	if err := player.PlayForCategory(dialogue.Category("")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := player.PlayForCategory(dialogue.CategoryIntellect); err != nil {
		t.Fatalf("expected missing cue to be skipped, got %v", err)
	}
}
