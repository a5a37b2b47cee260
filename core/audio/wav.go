package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var ErrUnsupportedWAV = errors.New("unsupported wav file")

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// Clip is a decoded sound.
type Clip struct {
	Info EncodingInfo
	Data []byte
}

// Frames is the clip length in frames.
func (c Clip) Frames() int {
	size := c.Info.BytesPerFrame()
	if size <= 0 {
		return 0
	}
	return len(c.Data) / size
}

// DecodeWAV reads a RIFF/WAVE file holding 16-bit PCM samples. Chunks other
// than "fmt " and "data" are skipped.
func DecodeWAV(r io.Reader) (Clip, error) {
	var header struct {
		RIFF [4]byte
		Size uint32
		WAVE [4]byte
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return Clip{}, fmt.Errorf("read riff header: %w", err)
	}
	if string(header.RIFF[:]) != "RIFF" || string(header.WAVE[:]) != "WAVE" {
		return Clip{}, fmt.Errorf("%w: missing RIFF/WAVE header", ErrUnsupportedWAV)
	}

	var info EncodingInfo
	for {
		var chunk struct {
			ID   [4]byte
			Size uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				return Clip{}, fmt.Errorf("%w: no data chunk", ErrUnsupportedWAV)
			}
			return Clip{}, fmt.Errorf("read chunk header: %w", err)
		}

		body := make([]byte, chunk.Size)
		if _, err := io.ReadFull(r, body); err != nil {
			return Clip{}, fmt.Errorf("read %q chunk: %w", chunk.ID[:], err)
		}
		if chunk.Size%2 == 1 {
			// chunks are word aligned
			if _, err := io.CopyN(io.Discard, r, 1); err != nil && !errors.Is(err, io.EOF) {
				return Clip{}, fmt.Errorf("skip chunk padding: %w", err)
			}
		}

		switch string(chunk.ID[:]) {
		case "fmt ":
			var err error
			if info, err = decodeFormat(body); err != nil {
				return Clip{}, err
			}
		case "data":
			if info.IsZero() {
				return Clip{}, fmt.Errorf("%w: data before fmt chunk", ErrUnsupportedWAV)
			}
			frame := info.BytesPerFrame()
			return Clip{Info: info, Data: body[:len(body)-len(body)%frame]}, nil
		}
	}
}

func decodeFormat(body []byte) (EncodingInfo, error) {
	var format struct {
		AudioFormat   uint16
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
	}
	if err := binary.Read(bytes.NewReader(body), binary.LittleEndian, &format); err != nil {
		return EncodingInfo{}, fmt.Errorf("%w: short fmt chunk", ErrUnsupportedWAV)
	}

	if format.AudioFormat != wavFormatPCM && format.AudioFormat != wavFormatExtensible {
		return EncodingInfo{}, fmt.Errorf("%w: audio format %d is not PCM", ErrUnsupportedWAV, format.AudioFormat)
	}
	if format.BitsPerSample != 16 {
		return EncodingInfo{}, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedWAV, format.BitsPerSample)
	}
	if format.Channels == 0 || format.SampleRate == 0 {
		return EncodingInfo{}, fmt.Errorf("%w: no channels or sample rate", ErrUnsupportedWAV)
	}

	return EncodingInfo{
		SampleRate: int(format.SampleRate),
		Channels:   int(format.Channels),
		Format:     EncodingLinear16,
	}, nil
}
