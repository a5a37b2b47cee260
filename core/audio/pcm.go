package audio

import (
	"encoding/binary"
	"math"
)

// Convert resamples clip to the rate and channel layout of target using
// nearest-neighbour sampling. Mono is spread to every channel; downmixing to
// mono averages the channels.
func Convert(clip Clip, target EncodingInfo) Clip {
	src := clip.Info
	if src == target {
		return clip
	}

	srcFrames := clip.Frames()
	if srcFrames == 0 || target.IsZero() {
		return Clip{Info: target}
	}
	dstFrames := int(int64(srcFrames) * int64(target.SampleRate) / int64(src.SampleRate))

	out := make([]byte, dstFrames*target.Channels*2)
	for i := range dstFrames {
		srcFrame := int(int64(i) * int64(src.SampleRate) / int64(target.SampleRate))
		for ch := range target.Channels {
			var sample int
			switch {
			case src.Channels == target.Channels:
				sample = int(sampleAt(clip.Data, srcFrame*src.Channels+ch))
			case target.Channels == 1:
				for srcCh := range src.Channels {
					sample += int(sampleAt(clip.Data, srcFrame*src.Channels+srcCh))
				}
				sample /= src.Channels
			default:
				sample = int(sampleAt(clip.Data, srcFrame*src.Channels+ch%src.Channels))
			}
			binary.LittleEndian.PutUint16(out[(i*target.Channels+ch)*2:], uint16(int16(sample)))
		}
	}
	return Clip{Info: target, Data: out}
}

// Mix adds src onto dst sample by sample, clipping at the int16 range. The
// result is as long as the longer of the two.
func Mix(dst, src []byte) []byte {
	if len(src) > len(dst) {
		dst = append(dst, make([]byte, len(src)-len(dst))...)
	}
	for i := 0; i+1 < len(src); i += 2 {
		sum := int(sampleAt(dst, i/2)) + int(sampleAt(src, i/2))
		sum = max(math.MinInt16, min(math.MaxInt16, sum))
		binary.LittleEndian.PutUint16(dst[i:], uint16(int16(sum)))
	}
	return dst
}

func sampleAt(data []byte, index int) int16 {
	return int16(binary.LittleEndian.Uint16(data[index*2:]))
}
