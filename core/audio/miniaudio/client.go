package miniaudio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/innervoice/core/audio"
	"github.com/koscakluka/innervoice/core/dialogue"
)

// CuePlayer plays the sound effects of skill checks. Cues whose files are
// missing or unreadable are skipped, playing them is a no-op.
type CuePlayer struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playbackClient

	cues   map[audio.CueName][]byte
	logger *slog.Logger

	closeOnce sync.Once
}

type Option func(*CuePlayer)

func WithLogger(l *slog.Logger) Option {
	return func(p *CuePlayer) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewCuePlayer opens the default playback device and loads every cue found in
// soundsDir.
func NewCuePlayer(soundsDir string, opts ...Option) (*CuePlayer, error) {
	player := &CuePlayer{logger: logger}
	for _, opt := range opts {
		opt(player)
	}

	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		player.logger.Debug("malgo", slog.String("message", message))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}
	player.audioContext = audioCtx

	info := audio.GetDefaultEncodingInfo()
	if err := player.playbackClient.Init(audioCtx, info); err != nil {
		player.Close()
		return nil, fmt.Errorf("failed to initialize playback client: %w", err)
	}
	if err := player.playbackClient.Start(); err != nil {
		player.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	player.cues = loadCues(soundsDir, info, player.logger)
	return player, nil
}

func loadCues(dir string, info audio.EncodingInfo, logger *slog.Logger) map[audio.CueName][]byte {
	cues := make(map[audio.CueName][]byte)
	for _, cue := range audio.CueNames() {
		path := filepath.Join(dir, cue.FileName())
		clip, err := loadClip(path)
		if err != nil {
			logger.Warn("skipping sound effect", slog.String("cue", string(cue)), slog.String("error", err.Error()))
			continue
		}
		cues[cue] = audio.Convert(clip, info).Data
	}
	logger.Info("sound effects loaded", slog.Int("count", len(cues)), slog.String("dir", dir))
	return cues
}

func loadClip(path string) (audio.Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.Clip{}, err
	}
	defer f.Close()

	return audio.DecodeWAV(f)
}

func (p *CuePlayer) PlayForCategory(category dialogue.Category) error {
	cue, ok := audio.CueForCategory(category)
	if !ok {
		return nil
	}
	return p.play(cue)
}

func (p *CuePlayer) PlayClick() error   { return p.play(audio.CueClick) }
func (p *CuePlayer) PlayStartup() error { return p.play(audio.CueStartup) }

func (p *CuePlayer) play(cue audio.CueName) error {
	pcm, ok := p.cues[cue]
	if !ok {
		return nil
	}
	if err := p.playbackClient.Play(pcm); err != nil {
		return fmt.Errorf("failed to play %s cue: %w", cue, err)
	}
	p.logger.Debug("playing sound effect", slog.String("cue", string(cue)))
	return nil
}

func (p *CuePlayer) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.playbackClient.ClearBuffer()
		p.playbackClient.Uninit()
		if p.audioContext != nil {
			err = p.audioContext.Uninit()
			p.audioContext.Free()
		}
	})
	return err
}
