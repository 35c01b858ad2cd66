package ai

import "github.com/neuronova/neuronova/internal/model"

// SystemPrompt is the fixed coach persona for every completion.
// The crisis-resource disclosure is mandatory and must not be removed.
const SystemPrompt = "You are Neuronova AI, an empathetic mental wellness coach. " +
	"Use CBT and DBT techniques. Be supportive, non-judgmental, and concise (2-4 sentences). " +
	"Always end with a reflective question. If user mentions self-harm or suicide, " +
	"immediately provide crisis resources: US 988, UK 116 123."

// MapRole converts a stored message role to the completion service's
// role vocabulary. Anything that is not an assistant turn is sent as a
// user turn.
func MapRole(role model.Role) string {
	if role == model.RoleAssistant {
		return "assistant"
	}
	return "user"
}

// HistoryToMessages converts stored messages to completion request
// messages, preserving order.
func HistoryToMessages(history []*model.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(history))
	for _, msg := range history {
		out = append(out, ChatMessage{
			Role:    MapRole(msg.Role),
			Content: msg.Content,
		})
	}
	return out
}
