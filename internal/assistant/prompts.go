package assistant

import (
	"fmt"

	"github.com/angelmondragon/notewell-backend/pkg/enums"
)

const (
	minSummarizeRunes = 20
	minRewriteRunes   = 10
	minTranslateRunes = 5
	minImproveRunes   = 10

	healthProbePrompt = "Ping. Respond with the single word: Pong."
)

func summarizePrompt(note string) string {
	return "You are an assistant that summarizes notes into concise, clear bullet points. Summarize the following note into key bullet points:\n\n" + note
}

func actionPrompt(action enums.AssistantAction, req AssistRequest) string {
	switch action {
	case enums.AssistantActionRewrite:
		return "Rewrite the following text to make it clearer, more engaging, and better structured while maintaining the original meaning:\n\n" + req.Content
	case enums.AssistantActionTranslate:
		return fmt.Sprintf("Translate the following text to %s. Only return the translated text:\n\n%s", req.Language, req.Content)
	case enums.AssistantActionImprove:
		return "Analyze the following text and provide specific suggestions for improvement in terms of clarity, structure, grammar, and engagement. Format your response as bullet points:\n\n" + req.Content
	case enums.AssistantActionChat:
		return fmt.Sprintf("You are a helpful AI assistant for a note-taking app. The user is asking: \"%s\". Provide a helpful, concise response. If they're asking about note-taking, writing, or productivity, give specific actionable advice.", req.Message)
	}
	return ""
}
