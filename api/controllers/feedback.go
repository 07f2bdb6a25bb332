package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/lauracastellan/velora-backend/api/responses"
	"github.com/lauracastellan/velora-backend/api/validators"
	"github.com/lauracastellan/velora-backend/internal/feedback"
	pkgerrors "github.com/lauracastellan/velora-backend/pkg/errors"
	"github.com/lauracastellan/velora-backend/pkg/logger"
)

// FeedbackSubmitter forwards validated submissions to the external sink.
type FeedbackSubmitter interface {
	Submit(ctx context.Context, submission feedback.Submission) error
}

type submitFeedbackRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Comment string `json:"comment" validate:"required"`
}

// SubmitFeedback validates a contact-form submission and forwards it to the
// configured sink. The submission is not stored locally.
func SubmitFeedback(client FeedbackSubmitter, maxCommentSize int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback sink not configured"))
			return
		}

		var payload submitFeedbackRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if maxCommentSize > 0 && len(payload.Comment) > maxCommentSize {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "comment too long").
				WithDetails(map[string]any{"field": "comment", "max_bytes": maxCommentSize}))
			return
		}

		submission := feedback.Submission{
			Name:    strings.TrimSpace(payload.Name),
			Email:   strings.TrimSpace(payload.Email),
			Comment: strings.TrimSpace(payload.Comment),
		}

		if err := client.Submit(r.Context(), submission); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "submitted"})
	}
}
