package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	orchestration "github.com/koscakluka/innervoice/core"
	"github.com/koscakluka/innervoice/core/audio"
	"github.com/koscakluka/innervoice/core/audio/miniaudio"
	"github.com/koscakluka/innervoice/core/dialogue"
	"github.com/koscakluka/innervoice/core/llms"
	"github.com/koscakluka/innervoice/core/llms/anthropic"
	"github.com/koscakluka/innervoice/core/llms/groq"
	"github.com/koscakluka/innervoice/core/locale"
	"github.com/koscakluka/innervoice/core/notes"
	"github.com/koscakluka/innervoice/internal/config"
	"github.com/koscakluka/innervoice/internal/logging"
	"github.com/koscakluka/innervoice/internal/tui"
	"golang.org/x/sync/errgroup"
)

type cuePlayer interface {
	PlayForCategory(category dialogue.Category) error
	PlayClick() error
	PlayStartup() error
	Close() error
}

func loadConfig(ctx context.Context, f flags) (*config.Config, error) {
	cfg, err := config.Load(ctx, f.configPath)
	if err != nil {
		return nil, err
	}
	if f.language != "" {
		cfg.Language = f.language
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openNotes(cfg *config.Config) (notes.Store, error) {
	store, err := notes.Open(notes.Backend(cfg.Notes.Backend), cfg.Notes.Path)
	if err != nil {
		return nil, fmt.Errorf("open notes: %w", err)
	}
	return store, nil
}

func openCues(cfg *config.Config, logger *slog.Logger) cuePlayer {
	if !cfg.Audio.Enabled {
		return audio.Silent{}
	}
	player, err := miniaudio.NewCuePlayer(cfg.Audio.SoundsDir, miniaudio.WithLogger(logger))
	if err != nil {
		logger.Warn("audio unavailable, continuing without sound", slog.String("error", err.Error()))
		return audio.Silent{}
	}
	return player
}

func newLLM(cfg *config.Config, apiKey string) orchestration.LLMWithStream {
	switch cfg.Model.Provider {
	case config.ProviderGroq:
		return groq.NewClient(apiKey, cfg.Model.Name)
	default:
		return anthropic.NewClient(apiKey, cfg.Model.Name)
	}
}

func newVocabulary(labels *locale.Manager) *dialogue.Vocabulary {
	return dialogue.NewVocabulary(
		dialogue.WithSkillAliases(labels.Aliases(locale.DomainSkills)),
		dialogue.WithDifficultyAliases(labels.Aliases(locale.DomainDifficulties)),
	)
}

func runChat(ctx context.Context, f flags) error {
	cfg, err := loadConfig(ctx, f)
	if err != nil {
		return err
	}

	logger, logFile, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger.InfoContext(ctx, "Mr. Evrart is helping me find my API key.")

	apiKey, err := cfg.APIKey()
	if err != nil {
		return err
	}

	labels, err := locale.Load(cfg.Language)
	if err != nil {
		return err
	}

	store, err := openNotes(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close notes", slog.String("error", err.Error()))
		}
	}()

	cues := openCues(cfg, logger)
	defer func() {
		if err := cues.Close(); err != nil {
			logger.Error("failed to close audio", slog.String("error", err.Error()))
		}
	}()

	ui := tui.New(labels, tui.WithSubmitSound(func() {
		if err := cues.PlayClick(); err != nil {
			logger.Error("failed to play click", slog.String("error", err.Error()))
		}
	}))

	promptOpts := []orchestration.SystemPromptOption{
		orchestration.WithLanguageInstruction(labels.LanguageInstruction()),
		orchestration.WithPromptLogger(logger),
	}
	if cfg.UserContext.Enabled {
		promptOpts = append(promptOpts, orchestration.WithUserContext(store))
	}

	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithStreamingLLM(newLLM(cfg, apiKey),
			llms.WithTemperature(cfg.Model.Temperature),
			llms.WithMaxTokens(cfg.Model.MaxTokens),
		),
		orchestration.WithRenderer(ui.Renderer()),
		orchestration.WithAudioCue(cues),
		orchestration.WithNoteStore(store),
		orchestration.WithConfirmationSource(ui.Confirmations()),
		orchestration.WithVocabulary(newVocabulary(labels)),
		orchestration.WithMemoryNotice(labels.MemoryNotice),
		orchestration.WithLogger(logger),
		orchestration.WithSystemPrompt(orchestration.NewSystemPrompt(promptOpts...)),
	)

	if err := cues.PlayStartup(); err != nil {
		logger.Error("failed to play startup cue", slog.String("error", err.Error()))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return ui.Run()
	})
	g.Go(func() error {
		<-ctx.Done()
		ui.Quit()
		return nil
	})
	g.Go(func() error {
		for prompt := range ui.Prompts() {
			err := orchestrator.Respond(ctx, prompt)
			if ctx.Err() != nil || errors.Is(err, tui.ErrInputClosed) {
				return nil
			}
			if err != nil {
				logger.ErrorContext(ctx, "Check failure", slog.String("error", err.Error()))
			}
			ui.TurnDone(err)
		}
		return nil
	})

	err = g.Wait()
	logger.Info("Leave without comment. [Leave.]")
	return err
}
