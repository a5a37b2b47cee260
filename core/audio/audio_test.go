package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/koscakluka/innervoice/core/dialogue"
)

func pcm16(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func samples16(data []byte) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return out
}

func wavFile(audioFormat, channels uint16, sampleRate uint32, bits uint16, extra []byte, data []byte) []byte {
	var fmtChunk bytes.Buffer
	binary.Write(&fmtChunk, binary.LittleEndian, audioFormat)
	binary.Write(&fmtChunk, binary.LittleEndian, channels)
	binary.Write(&fmtChunk, binary.LittleEndian, sampleRate)
	binary.Write(&fmtChunk, binary.LittleEndian, sampleRate*uint32(channels)*uint32(bits/8))
	binary.Write(&fmtChunk, binary.LittleEndian, channels*bits/8)
	binary.Write(&fmtChunk, binary.LittleEndian, bits)

	var body bytes.Buffer
	body.WriteString("WAVE")
	writeChunk(&body, "fmt ", fmtChunk.Bytes())
	if extra != nil {
		writeChunk(&body, "LIST", extra)
	}
	writeChunk(&body, "data", data)

	var file bytes.Buffer
	file.WriteString("RIFF")
	binary.Write(&file, binary.LittleEndian, uint32(body.Len()))
	file.Write(body.Bytes())
	return file.Bytes()
}

func writeChunk(w *bytes.Buffer, id string, body []byte) {
	w.WriteString(id)
	binary.Write(w, binary.LittleEndian, uint32(len(body)))
	w.Write(body)
	if len(body)%2 == 1 {
		w.WriteByte(0)
	}
}

func TestDecodeWAV(t *testing.T) {
	data := pcm16(1, -1, 300, -300)
	clip, err := DecodeWAV(bytes.NewReader(wavFile(wavFormatPCM, 2, 22050, 16, []byte("odd"), data)))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expected := EncodingInfo{SampleRate: 22050, Channels: 2, Format: EncodingLinear16}
	if clip.Info != expected {
		t.Fatalf("expected %+v, got %+v", expected, clip.Info)
	}
	if !bytes.Equal(clip.Data, data) {
		t.Fatalf("expected data to be kept, got %v", clip.Data)
	}
	if clip.Frames() != 2 {
		t.Fatalf("expected 2 frames, got %d", clip.Frames())
	}
}

func TestDecodeWAVRejectsUnsupportedFiles(t *testing.T) {
	tests := map[string][]byte{
		"not riff":     []byte("RIFX\x00\x00\x00\x00WAVE"),
		"float":        wavFile(3, 1, 44100, 32, nil, pcm16(0, 0)),
		"8 bit":        wavFile(wavFormatPCM, 1, 44100, 8, nil, []byte{1, 2}),
		"no data":      wavFile(wavFormatPCM, 1, 44100, 16, nil, nil)[:36],
		"data too big": append(wavFile(wavFormatPCM, 1, 44100, 16, nil, pcm16(1, 2))[:40], 0xFF, 0, 0, 0),
	}
	for name, file := range tests {
		if _, err := DecodeWAV(bytes.NewReader(file)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}

	_, err := DecodeWAV(bytes.NewReader(wavFile(3, 1, 44100, 32, nil, nil)))
	if !errors.Is(err, ErrUnsupportedWAV) {
		t.Fatalf("expected ErrUnsupportedWAV, got %v", err)
	}
}

func TestConvertMonoToStereoUpsampled(t *testing.T) {
	clip := Clip{
		Info: EncodingInfo{SampleRate: 1, Channels: 1, Format: EncodingLinear16},
		Data: pcm16(10, 20),
	}
	target := EncodingInfo{SampleRate: 2, Channels: 2, Format: EncodingLinear16}

	converted := Convert(clip, target)
	if converted.Info != target {
		t.Fatalf("expected %+v, got %+v", target, converted.Info)
	}
	expected := []int16{10, 10, 10, 10, 20, 20, 20, 20}
	if got := samples16(converted.Data); !slices.Equal(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}

func TestConvertStereoToMonoDownsampled(t *testing.T) {
	clip := Clip{
		Info: EncodingInfo{SampleRate: 2, Channels: 2, Format: EncodingLinear16},
		Data: pcm16(10, 30, 0, 0, -10, -30, 5, 5),
	}
	target := EncodingInfo{SampleRate: 1, Channels: 1, Format: EncodingLinear16}

	expected := []int16{20, -20}
	if got := samples16(Convert(clip, target).Data); !slices.Equal(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}

func TestConvertSameFormatIsIdentity(t *testing.T) {
	clip := Clip{Info: GetDefaultEncodingInfo(), Data: pcm16(1, 2)}
	if got := Convert(clip, GetDefaultEncodingInfo()); !bytes.Equal(got.Data, clip.Data) {
		t.Fatalf("expected unchanged data, got %v", got.Data)
	}
}

func TestMixClips(t *testing.T) {
	mixed := Mix(pcm16(1, math.MaxInt16, math.MinInt16), pcm16(2, 10, -10, 7))

	expected := []int16{3, math.MaxInt16, math.MinInt16, 7}
	if got := samples16(mixed); !slices.Equal(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}

func TestCueForCategory(t *testing.T) {
	tests := []struct {
		category dialogue.Category
		cue      CueName
		file     string
	}{
		{dialogue.CategoryIntellect, CueIntellect, "interface-skill-passiveINT-04-01.wav"},
		{dialogue.CategoryPsyche, CuePsyche, "interface-skill-passivePSY-04-02.wav"},
		{dialogue.CategoryPhysique, CuePhysique, "interface-skill-passiveFYS-03-01.wav"},
		{dialogue.CategoryMotorics, CueMotorics, "interface-skill-passiveMOT-04-01.wav"},
	}
	for _, tt := range tests {
		cue, ok := CueForCategory(tt.category)
		if !ok || cue != tt.cue {
			t.Fatalf("expected %s for %s, got %s", tt.cue, tt.category, cue)
		}
		if cue.FileName() != tt.file {
			t.Fatalf("expected file %s, got %s", tt.file, cue.FileName())
		}
	}

	if _, ok := CueForCategory(""); ok {
		t.Fatalf("expected no cue without a category")
	}
}

func TestSilent(t *testing.T) {
	var s Silent
	if s.PlayForCategory(dialogue.CategoryIntellect) != nil || s.PlayClick() != nil || s.PlayStartup() != nil || s.Close() != nil {
		t.Fatalf("expected silent cue to never fail")
	}
}
