package controllers

import (
	"net/http"

	"github.com/angelmondragon/notewell-backend/api/responses"
	"github.com/angelmondragon/notewell-backend/api/validators"
	"github.com/angelmondragon/notewell-backend/internal/assistant"
	"github.com/angelmondragon/notewell-backend/pkg/logger"
)

func AISummarize(svc assistant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body assistant.SummarizeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Summarize(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AIAssistant(svc assistant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body assistant.AssistRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Assist(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AIHealth answers 503 with the probe result when the upstream did not respond.
func AIHealth(svc assistant.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := svc.Health(r.Context())
		status := http.StatusOK
		if !result.OK {
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}
