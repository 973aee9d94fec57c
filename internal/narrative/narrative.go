// Package narrative is the scoped wrapper around the external
// text-generation collaborator. It produces exactly one thing: the comments
// block of a proposal. Output is parsed strictly, lint-normalized, and
// returned; transport failures surface as typed errors and no retrying
// happens here (retry policy belongs to the caller).
package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"propdesk/api/internal/lint"
	"propdesk/api/internal/proposal"
)

var (
	// ErrInvalidOutput means the collaborator returned content that is not
	// parseable JSON. Fatal for the call; nothing is substituted.
	ErrInvalidOutput = errors.New("generation output is not valid JSON")
	// ErrMalformedOutput means the JSON parsed but lacks comments.paragraphs.
	ErrMalformedOutput = errors.New("generation output missing comments paragraphs")
)

// TransportKind classifies a failed call to the collaborator.
type TransportKind string

const (
	KindRateLimited  TransportKind = "rate_limited"
	KindUnauthorized TransportKind = "unauthorized"
	KindServer       TransportKind = "network_or_server"
)

// TransportError carries enough detail for the caller to decide retry vs
// abort.
type TransportError struct {
	StatusCode int
	Kind       TransportKind
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("generation transport error (%s, status %d): %v", e.Kind, e.StatusCode, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) IsRateLimit() bool { return e.Kind == KindRateLimited }
func (e *TransportError) IsAuthError() bool { return e.Kind == KindUnauthorized }

// Completion is what a Completer returns.
type Completion struct {
	Content     string
	TotalTokens int64
}

// Completer is the external text-generation collaborator. The production
// implementation talks to OpenAI; tests plug in fakes.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (Completion, error)
}

// GenerateInput feeds a fresh comments draft.
type GenerateInput struct {
	Brief                       proposal.ClientBrief
	SelectedServiceDisplayNames []string
	CustomInstructions          string
	PreparerName                string
}

// RegenerateInput asks for a revision of an existing comments block with
// explicit feedback. The whole block is replaced, never patched.
type RegenerateInput struct {
	GenerateInput
	CurrentComments proposal.CommentsBlock
	Feedback        string
}

// Result is the parsed, already-linted generation output.
type Result struct {
	ProposalTitle string
	Comments      proposal.CommentsBlock
}

// generatedPayload is the JSON contract the collaborator must return.
type generatedPayload struct {
	ProposalTitle string `json:"proposalTitle" jsonschema_description:"Short proposal title, or empty string to keep the current title"`
	Comments      struct {
		Heading      string   `json:"heading" jsonschema_description:"Section heading for the narrative block"`
		GreetingLine string   `json:"greetingLine" jsonschema_description:"Single greeting line addressed to the client first name"`
		Paragraphs   []string `json:"paragraphs" jsonschema_description:"Between 2 and 5 narrative paragraphs"`
		Signoff      string   `json:"signoff" jsonschema_description:"Sign-off, preparer first name only"`
	} `json:"comments"`
}

// Generator produces and revises comments blocks.
type Generator struct {
	completer Completer
}

// NewGenerator wraps a completer.
func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer}
}

// GenerateComments asks the collaborator for a fresh comments draft and
// returns it lint-normalized.
func (g *Generator) GenerateComments(ctx context.Context, in GenerateInput) (Result, error) {
	userPrompt := buildGeneratePrompt(in)
	return g.call(ctx, userPrompt)
}

// RegenerateComments embeds the previous comments and the feedback text and
// asks for a revision under the same output contract.
func (g *Generator) RegenerateComments(ctx context.Context, in RegenerateInput) (Result, error) {
	userPrompt := buildRegeneratePrompt(in)
	return g.call(ctx, userPrompt)
}

func (g *Generator) call(ctx context.Context, userPrompt string) (Result, error) {
	completion, err := g.completer.Complete(ctx, commentsSystemPrompt, userPrompt, true)
	if err != nil {
		return Result{}, err
	}

	var payload generatedPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(completion.Content)), &payload); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if payload.Comments.Paragraphs == nil {
		return Result{}, ErrMalformedOutput
	}

	comments := proposal.CommentsBlock{
		Heading:      payload.Comments.Heading,
		GreetingLine: payload.Comments.GreetingLine,
		Paragraphs:   payload.Comments.Paragraphs,
		Signoff:      payload.Comments.Signoff,
	}
	return Result{
		ProposalTitle: strings.TrimSpace(payload.ProposalTitle),
		Comments:      lint.LintComments(comments),
	}, nil
}
