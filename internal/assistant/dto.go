package assistant

// SummarizeRequest is the body of POST /ai/summarize.
type SummarizeRequest struct {
	Note string `json:"note"`
}

type SummaryResult struct {
	Summary string `json:"summary"`
}

// AssistRequest is the body of POST /ai/assistant. Content is used by the
// text actions, Language only by translate and Message only by chat.
type AssistRequest struct {
	Action   string `json:"action"`
	Content  string `json:"content"`
	Language string `json:"language"`
	Message  string `json:"message"`
}

type AssistResult struct {
	Response string `json:"response"`
	Action   string `json:"action"`
}

// HealthResult reports whether the completion upstream answered a probe.
type HealthResult struct {
	OK         bool   `json:"ok"`
	Configured bool   `json:"configured"`
	Model      string `json:"model,omitempty"`
	Reply      string `json:"reply,omitempty"`
	Error      string `json:"error,omitempty"`
}
