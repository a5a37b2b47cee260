package llms

type StreamingPromptOptions struct {
	Instructions string
	Turns        []Turn
	// Temperature is left to the provider default when nil.
	Temperature *float64
	// MaxTokens is left to the provider default when zero.
	MaxTokens int
}

type StreamingPromptOption func(*StreamingPromptOptions)

// NewStreamingPromptOptions applies opts over base.
func NewStreamingPromptOptions(base StreamingPromptOptions, opts ...StreamingPromptOption) StreamingPromptOptions {
	options := base
	options.Turns = append([]Turn(nil), base.Turns...)
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// WithInstructions sets the system prompt. Repeating this option will
// overwrite the previous instructions.
func WithInstructions(instructions string) StreamingPromptOption {
	return func(opts *StreamingPromptOptions) {
		opts.Instructions = instructions
	}
}

// WithTurns adds previous turns to the prompt. Repeating this option will
// sequentially add more turns.
func WithTurns(turns ...Turn) StreamingPromptOption {
	return func(opts *StreamingPromptOptions) {
		opts.Turns = append(opts.Turns, turns...)
	}
}

func WithTemperature(temperature float64) StreamingPromptOption {
	return func(opts *StreamingPromptOptions) {
		opts.Temperature = &temperature
	}
}

func WithMaxTokens(maxTokens int) StreamingPromptOption {
	return func(opts *StreamingPromptOptions) {
		if maxTokens > 0 {
			opts.MaxTokens = maxTokens
		}
	}
}
