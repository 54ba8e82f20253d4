package enums

import "fmt"

// AssistantAction selects the text transformation requested from the assistant.
type AssistantAction string

const (
	AssistantActionRewrite   AssistantAction = "rewrite"
	AssistantActionTranslate AssistantAction = "translate"
	AssistantActionImprove   AssistantAction = "improve"
	AssistantActionChat      AssistantAction = "chat"
)

var validAssistantActions = []AssistantAction{
	AssistantActionRewrite,
	AssistantActionTranslate,
	AssistantActionImprove,
	AssistantActionChat,
}

// String implements fmt.Stringer.
func (a AssistantAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AssistantAction.
func (a AssistantAction) IsValid() bool {
	for _, candidate := range validAssistantActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAssistantAction converts raw input into an AssistantAction.
func ParseAssistantAction(value string) (AssistantAction, error) {
	for _, candidate := range validAssistantActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assistant action %q", value)
}
