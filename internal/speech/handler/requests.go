package handler

import (
	"strings"

	"vowcraft/internal/speech"
	dErrors "vowcraft/pkg/domain-errors"
)

const (
	maxTitleLength   = 200
	maxToneLength    = 50
	maxTagCount      = 10
	maxTagLength     = 40
	maxContentLength = 50_000
)

// CreateSpeechRequest is the HTTP request body for POST /speeches.
type CreateSpeechRequest struct {
	Title   string   `json:"title"`
	Role    string   `json:"role"`
	Tone    string   `json:"tone"`
	Tags    []string `json:"tags"`
	Content string   `json:"content"`
}

// Validate validates and normalizes the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateSpeechRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return validateSpeechFields(&r.Title, &r.Role, &r.Tone, r.Tags, r.Content)
}

// UpdateSpeechRequest is the HTTP request body for PUT /speeches/{id}.
type UpdateSpeechRequest struct {
	Title   string   `json:"title"`
	Role    string   `json:"role"`
	Tone    string   `json:"tone"`
	Tags    []string `json:"tags"`
	Content string   `json:"content"`
}

// Validate validates and normalizes the request.
func (r *UpdateSpeechRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return validateSpeechFields(&r.Title, &r.Role, &r.Tone, r.Tags, r.Content)
}

func validateSpeechFields(title, role, tone *string, tags []string, content string) error {
	*title = strings.TrimSpace(*title)
	if *title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if len(*title) > maxTitleLength {
		return dErrors.New(dErrors.CodeValidation, "title is too long")
	}

	*role = strings.TrimSpace(*role)
	if !speech.ValidRole(*role) {
		return dErrors.New(dErrors.CodeValidation, "unknown role")
	}

	*tone = strings.TrimSpace(*tone)
	if len(*tone) > maxToneLength {
		return dErrors.New(dErrors.CodeValidation, "tone is too long")
	}

	if len(tags) > maxTagCount {
		return dErrors.New(dErrors.CodeValidation, "too many tags")
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return dErrors.New(dErrors.CodeValidation, "tags must not be blank")
		}
		if len(tag) > maxTagLength {
			return dErrors.New(dErrors.CodeValidation, "tag is too long")
		}
	}

	if len(content) > maxContentLength {
		return dErrors.New(dErrors.CodeValidation, "content is too long")
	}
	return nil
}
