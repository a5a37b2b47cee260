package llms

type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// Turn is one side of an exchange.
//
// In user's turn Content is the prompt, in assistant's turn it is the raw
// response including its markup.
type Turn struct {
	Role    TurnRole
	Content string
}

func UserTurn(content string) Turn      { return Turn{Role: TurnRoleUser, Content: content} }
func AssistantTurn(content string) Turn { return Turn{Role: TurnRoleAssistant, Content: content} }
