package assistant

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/angelmondragon/notewell-backend/pkg/completion"
	"github.com/angelmondragon/notewell-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/notewell-backend/pkg/errors"
	"github.com/angelmondragon/notewell-backend/pkg/metrics"
	"github.com/angelmondragon/notewell-backend/pkg/types"
)

// Service turns note text into assistant output through the completion upstream.
type Service interface {
	Summarize(ctx context.Context, req SummarizeRequest) (*SummaryResult, error)
	Assist(ctx context.Context, req AssistRequest) (*AssistResult, error)
	Health(ctx context.Context) *HealthResult
}

type service struct {
	client  completion.Completer
	metrics *metrics.CompletionMetrics
}

// NewService accepts a nil client; every call then fails with a dependency error.
func NewService(client completion.Completer, m *metrics.CompletionMetrics) Service {
	return &service{client: client, metrics: m}
}

func (s *service) Summarize(ctx context.Context, req SummarizeRequest) (*SummaryResult, error) {
	note := strings.TrimSpace(req.Note)
	if utf8.RuneCountInString(note) < minSummarizeRunes {
		return nil, violation("note", "Please provide a longer note to summarize.")
	}

	text, err := s.complete(ctx, "summarize", summarizePrompt(req.Note))
	if err != nil {
		return nil, err
	}
	return &SummaryResult{Summary: text}, nil
}

func (s *service) Assist(ctx context.Context, req AssistRequest) (*AssistResult, error) {
	raw := strings.TrimSpace(req.Action)
	if raw == "" {
		return nil, violation("action", "Action is required (rewrite, translate, improve, chat)")
	}
	action, err := enums.ParseAssistantAction(raw)
	if err != nil {
		return nil, violation("action", "Invalid action. Supported actions: rewrite, translate, improve, chat")
	}
	if err := validateAssist(action, req); err != nil {
		return nil, err
	}

	text, err := s.complete(ctx, action.String(), actionPrompt(action, req))
	if err != nil {
		return nil, err
	}
	return &AssistResult{Response: text, Action: action.String()}, nil
}

// Health sends a tiny probe prompt. It never returns an error; the result carries it.
func (s *service) Health(ctx context.Context) *HealthResult {
	if s.client == nil {
		return &HealthResult{OK: false, Configured: false, Error: "AI assistant is not configured"}
	}
	result := &HealthResult{Configured: true, Model: s.client.Model()}
	reply, err := s.complete(ctx, "health", healthProbePrompt)
	if err != nil {
		result.Error = publicMessage(err)
		return result
	}
	result.OK = true
	result.Reply = reply
	return result
}

func validateAssist(action enums.AssistantAction, req AssistRequest) error {
	content := utf8.RuneCountInString(strings.TrimSpace(req.Content))
	switch action {
	case enums.AssistantActionRewrite:
		if content < minRewriteRunes {
			return violation("content", "Please provide content to rewrite (minimum 10 characters).")
		}
	case enums.AssistantActionTranslate:
		if content < minTranslateRunes {
			return violation("content", "Please provide content to translate (minimum 5 characters).")
		}
		if strings.TrimSpace(req.Language) == "" {
			return violation("language", "Please specify the target language for translation.")
		}
	case enums.AssistantActionImprove:
		if content < minImproveRunes {
			return violation("content", "Please provide content to improve (minimum 10 characters).")
		}
	case enums.AssistantActionChat:
		if strings.TrimSpace(req.Message) == "" {
			return violation("message", "Please provide a message for the chat.")
		}
	}
	return nil
}

func (s *service) complete(ctx context.Context, operation, prompt string) (string, error) {
	if s.client == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "AI assistant is not configured")
	}
	started := time.Now()
	text, err := s.client.Complete(ctx, completion.UserMessage(prompt))
	s.metrics.Observe(operation, started, err)
	if err != nil {
		return "", mapCompletionError(err)
	}
	return text, nil
}

func mapCompletionError(err error) error {
	if errors.Is(err, completion.ErrOverloaded) {
		return pkgerrors.Wrap(pkgerrors.CodeBusy, err, "AI service is temporarily busy. Please try again in a few moments.")
	}
	return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "AI request failed")
}

func publicMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return pkgerrors.MetadataFor(typed.Code()).PublicMessage
	}
	return pkgerrors.MetadataFor(pkgerrors.CodeInternal).PublicMessage
}

func violation(field, msg string) error {
	details := types.Violations{}
	details.Add(field, msg)
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(details)
}
