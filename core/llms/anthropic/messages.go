package anthropic

import "github.com/koscakluka/innervoice/core/llms"

type role string

const (
	roleUser      role = "user"
	roleAssistant role = "assistant"
)

type message struct {
	Role    role   `json:"role"`
	Content string `json:"content"`
}

// toMessages converts turns to messages. The API requires alternating roles,
// so consecutive turns of the same role are joined.
func toMessages(turns []llms.Turn) []message {
	messages := []message{}
	for _, turn := range turns {
		switch turn.Role {
		case llms.TurnRoleUser:
			messages = appendMessage(messages, roleUser, turn.Content)
		case llms.TurnRoleAssistant:
			messages = appendMessage(messages, roleAssistant, turn.Content)
		}
	}
	return messages
}

func appendMessage(messages []message, r role, content string) []message {
	if content == "" {
		return messages
	}
	if n := len(messages); n > 0 && messages[n-1].Role == r {
		messages[n-1].Content += "\n\n" + content
		return messages
	}
	return append(messages, message{Role: r, Content: content})
}

type requestBody struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature *float64  `json:"temperature,omitempty"`
	Stream      bool      `json:"stream"`
}

const (
	eventMessageStart      = "message_start"
	eventContentBlockDelta = "content_block_delta"
	eventMessageDelta      = "message_delta"
	eventMessageStop       = "message_stop"
	eventError             = "error"

	deltaText = "text_delta"
)

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type streamEvent struct {
	Type    string `json:"type"`
	Message *struct {
		Usage usage `json:"usage"`
	} `json:"message,omitempty"`
	Delta *struct {
		Type       string `json:"type,omitempty"`
		Text       string `json:"text,omitempty"`
		StopReason string `json:"stop_reason,omitempty"`
	} `json:"delta,omitempty"`
	Usage *usage `json:"usage,omitempty"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
