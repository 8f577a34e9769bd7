package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyTitle    = errors.New("card title is required")
	ErrNotConfigured = errors.New("prompt generation is not configured: missing API key")
)

// FallbackPrompt is returned when the upstream answers without any content.
const FallbackPrompt = "Failed to generate prompt. Please try again."

// Generator turns a card title and optional description into an
// implementation prompt.
type Generator interface {
	Generate(ctx context.Context, title, description string) (string, error)
}

// UpstreamError is a failed call to the text-generation endpoint.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

const systemInstruction = `You are an expert software development assistant specializing in helping developers plan and implement features efficiently. Your task is to take a feature title and optional description, and generate a detailed, comprehensive prompt that an AI programming assistant can use to implement this feature.

The prompt should include:
1. Clear objective and goals
2. Technical requirements and constraints
3. File structure and organization
4. Key components or functions needed
5. Best practices and design patterns
6. Testing considerations
7. Performance and accessibility requirements
8. Any relevant code examples or patterns

Make the prompt specific, actionable, and comprehensive enough that the assistant can independently implement the feature with minimal additional context. Format the prompt in a clear, structured way that's easy to follow.`

func userInstruction(title, description string) string {
	var b strings.Builder
	b.WriteString("Feature Title: ")
	b.WriteString(title)
	if description != "" {
		b.WriteString("\n\nDescription: ")
		b.WriteString(description)
	}
	b.WriteString("\n\nPlease generate a detailed implementation prompt for this feature that I can use with an AI coding assistant.")
	return b.String()
}
