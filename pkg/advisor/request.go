package advisor

import (
	"fmt"
	"strings"

	"routine-advisor-be/internal/constant"
	"routine-advisor-be/internal/entity"
	"routine-advisor-be/pkg/conversation"
)

// BuildRoutineRequest starts a fresh conversation asking for a routine over the selected
// products and returns the transcript to send.
func BuildRoutineRequest(conv *conversation.Manager, selected []entity.Product) ([]entity.ConversationTurn, error) {
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}

	conv.Reset()
	conv.AppendSystemIfAbsent(constant.RoutineSystemPrompt)
	conv.AppendUser(RoutinePrompt(selected))

	return conv.Snapshot(), nil
}

// RoutinePrompt lists every product as "- brand name (category): description".
func RoutinePrompt(selected []entity.Product) string {
	lines := make([]string, len(selected))
	for i, p := range selected {
		lines[i] = fmt.Sprintf(constant.RoutineProductLineTemplate, p.Brand, p.Name, p.Category, p.Description)
	}
	return fmt.Sprintf(constant.RoutineUserPromptTemplate, strings.Join(lines, "\n"))
}

// BuildFollowUpRequest appends the question (and a persona on an empty transcript) and returns
// the outgoing transcript. With web search on, only the outgoing copy of the question carries
// the search instruction; the stored turn keeps what the user typed.
func BuildFollowUpRequest(conv *conversation.Manager, question string, webSearch bool) ([]entity.ConversationTurn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyInput
	}

	persona := constant.FollowUpSystemPrompt
	if webSearch {
		persona = constant.FollowUpWebSearchSystemPrompt
	}
	conv.AppendSystemIfAbsent(persona)
	conv.AppendUser(question)

	outgoing := conv.Snapshot()
	if webSearch {
		last := len(outgoing) - 1
		if outgoing[last].Role == constant.ConversationRoleUser {
			outgoing[last].Content += constant.WebSearchInstructionSuffix
		}
	}
	return outgoing, nil
}
