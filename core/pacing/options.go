package pacing

import "log/slog"

type Option func(*Pacer)

func WithRenderer(renderer Renderer) Option {
	return func(p *Pacer) {
		if renderer != nil {
			p.renderer = renderer
		}
	}
}

func WithAudioCue(cue AudioCue) Option {
	return func(p *Pacer) {
		if cue != nil {
			p.cue = cue
		}
	}
}

func WithNoteStore(notes NoteStore) Option {
	return func(p *Pacer) {
		if notes != nil {
			p.notes = notes
		}
	}
}

// WithConfirmationSource makes the pacer read confirmations by itself every
// time a skill check starts waiting. Without a source, confirmations have to
// be delivered through Pacer.Confirm.
func WithConfirmationSource(source ConfirmationSource) Option {
	return func(p *Pacer) {
		p.confirmations = source
	}
}

// WithMemoryNotice sets the text shown when a context update was stored. It
// receives the stored content.
func WithMemoryNotice(notice func(content string) string) Option {
	return func(p *Pacer) {
		if notice != nil {
			p.memoryNotice = notice
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pacer) {
		if l != nil {
			p.logger = l
		}
	}
}

func defaultMemoryNotice(content string) string {
	return "New information added to memory: " + content
}
