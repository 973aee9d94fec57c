package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"propdesk/api/internal/proposal"
)

type fakeCompleter struct {
	content    string
	err        error
	lastSystem string
	lastUser   string
	lastJSON   bool
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, userPrompt string, jsonMode bool) (Completion, error) {
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	f.lastJSON = jsonMode
	if f.err != nil {
		return Completion{}, f.err
	}
	return Completion{Content: f.content, TotalTokens: 321}, nil
}

func generateInput() GenerateInput {
	return GenerateInput{
		Brief: proposal.ClientBrief{
			ClientName:   "Sara Ortiz",
			Organization: "Ortiz Retail",
			Goals:        []string{"grow online sales"},
			PainPoints:   []string{"stale brand"},
		},
		SelectedServiceDisplayNames: []string{"THE MARKETING MACHINE"},
		PreparerName:                "Kathryn",
	}
}

func TestGenerateCommentsHappyPath(t *testing.T) {
	fake := &fakeCompleter{content: `{
		"proposalTitle": "A Growth Plan for Ortiz Retail",
		"comments": {
			"heading": "Our Thoughts",
			"greetingLine": "Hi Sara,",
			"paragraphs": ["It was great speaking last week.", "Here is where we would start."],
			"signoff": "— Kathryn"
		}
	}`}
	g := NewGenerator(fake)

	result, err := g.GenerateComments(context.Background(), generateInput())
	if err != nil {
		t.Fatalf("GenerateComments failed: %v", err)
	}

	if !fake.lastJSON {
		t.Error("comments generation must request JSON mode")
	}
	if result.ProposalTitle != "A Growth Plan for Ortiz Retail" {
		t.Errorf("title = %q", result.ProposalTitle)
	}
	if len(result.Comments.Paragraphs) != 2 {
		t.Fatalf("paragraphs = %v", result.Comments.Paragraphs)
	}
	// Output goes through the lint pass before coming back.
	if result.Comments.Signoff != "Kathryn" {
		t.Errorf("signoff should be lint-cleaned, got %q", result.Comments.Signoff)
	}
}

func TestGenerateCommentsLintsDashes(t *testing.T) {
	fake := &fakeCompleter{content: `{
		"comments": {
			"heading": "Our Thoughts",
			"greetingLine": "Hi Sara,",
			"paragraphs": ["Growth—fast growth—is the goal.", "Second paragraph."],
			"signoff": "Kathryn"
		}
	}`}
	g := NewGenerator(fake)

	result, err := g.GenerateComments(context.Background(), generateInput())
	if err != nil {
		t.Fatal(err)
	}
	if strings.ContainsRune(result.Comments.Paragraphs[0], '—') {
		t.Errorf("em dash should be normalized, got %q", result.Comments.Paragraphs[0])
	}
}

func TestGenerateCommentsInvalidJSON(t *testing.T) {
	g := NewGenerator(&fakeCompleter{content: "Sure! Here's your proposal text..."})
	_, err := g.GenerateComments(context.Background(), generateInput())
	if !errors.Is(err, ErrInvalidOutput) {
		t.Errorf("expected ErrInvalidOutput, got %v", err)
	}
}

func TestGenerateCommentsMissingParagraphs(t *testing.T) {
	g := NewGenerator(&fakeCompleter{content: `{"proposalTitle": "x", "comments": {"heading": "h"}}`})
	_, err := g.GenerateComments(context.Background(), generateInput())
	if !errors.Is(err, ErrMalformedOutput) {
		t.Errorf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestGenerateCommentsTransportErrorPassthrough(t *testing.T) {
	transportErr := &TransportError{StatusCode: 429, Kind: KindRateLimited, Err: errors.New("too many requests")}
	g := NewGenerator(&fakeCompleter{err: transportErr})

	_, err := g.GenerateComments(context.Background(), generateInput())
	var got *TransportError
	if !errors.As(err, &got) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !got.IsRateLimit() {
		t.Error("rate limit classification lost")
	}
}

func TestGeneratePromptCarriesBrief(t *testing.T) {
	fake := &fakeCompleter{content: `{"comments": {"paragraphs": ["a", "b"]}}`}
	g := NewGenerator(fake)

	in := generateInput()
	in.CustomInstructions = "Mention the spring launch."
	if _, err := g.GenerateComments(context.Background(), in); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"Sara Ortiz", "Ortiz Retail", "grow online sales", "THE MARKETING MACHINE", "Kathryn", "Mention the spring launch."} {
		if !strings.Contains(fake.lastUser, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(fake.lastSystem, "Never use em dashes") {
		t.Error("system prompt should carry the dash rule")
	}
}

func TestRegeneratePromptCarriesDraftAndFeedback(t *testing.T) {
	fake := &fakeCompleter{content: `{"comments": {"paragraphs": ["a", "b"]}}`}
	g := NewGenerator(fake)

	_, err := g.RegenerateComments(context.Background(), RegenerateInput{
		GenerateInput: generateInput(),
		CurrentComments: proposal.CommentsBlock{
			GreetingLine: "Hi Sara,",
			Paragraphs:   []string{"The original first paragraph."},
			Signoff:      "Kathryn",
		},
		Feedback: "Make it shorter and mention the timeline.",
	})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(fake.lastUser, "The original first paragraph.") {
		t.Error("prompt should embed the previous draft")
	}
	if !strings.Contains(fake.lastUser, "Make it shorter and mention the timeline.") {
		t.Error("prompt should embed the feedback")
	}
}
