package narrative

import (
	"fmt"
	"strings"
)

// commentsSystemPrompt is the fixed instruction set for the comments block.
// The constraints here mirror what the linter and validator enforce, so the
// model output usually survives linting untouched.
const commentsSystemPrompt = `You write the narrative "comments" section of a marketing proposal for an agency.

You will be given client context (goals, pain points, opportunities) and the list of services being proposed.

OUTPUT:
Return a single JSON object with this exact shape and nothing else:
{
  "proposalTitle": string,
  "comments": {
    "heading": string,
    "greetingLine": string,
    "paragraphs": [string],
    "signoff": string
  }
}

RULES:
- Between 2 and 5 paragraphs. No more, no fewer.
- Never use em dashes or en dashes anywhere. Use plain hyphens or commas.
- Do not mention pricing, fees, or specific service deliverables; the proposal body covers those.
- Do not use legal or contractual language.
- The greeting line addresses the client by first name, for example "Hi Jordan,".
- The signoff is the preparer's first name only. No titles, no company name.
- Warm, confident, direct. Write about the client's situation and why the proposed direction fits it.
- "proposalTitle" may be an empty string if no better title than the current one comes to mind.`

func buildGeneratePrompt(in GenerateInput) string {
	var b strings.Builder
	b.WriteString("CLIENT BRIEF\n")
	fmt.Fprintf(&b, "Client: %s\n", in.Brief.ClientName)
	fmt.Fprintf(&b, "Organization: %s\n", in.Brief.Organization)
	writeList(&b, "Goals", in.Brief.Goals)
	writeList(&b, "Pain points", in.Brief.PainPoints)
	writeList(&b, "Opportunities", in.Brief.Opportunities)
	writeList(&b, "\nPROPOSED SERVICES", in.SelectedServiceDisplayNames)
	fmt.Fprintf(&b, "\nPreparer first name: %s\n", in.PreparerName)
	if strings.TrimSpace(in.CustomInstructions) != "" {
		fmt.Fprintf(&b, "\nADDITIONAL INSTRUCTIONS FROM THE PREPARER\n%s\n", in.CustomInstructions)
	}
	b.WriteString("\nWrite the comments section now.")
	return b.String()
}

func buildRegeneratePrompt(in RegenerateInput) string {
	var b strings.Builder
	b.WriteString(buildGeneratePrompt(in.GenerateInput))
	b.WriteString("\n\nPREVIOUS DRAFT\n")
	fmt.Fprintf(&b, "Greeting: %s\n", in.CurrentComments.GreetingLine)
	for i, para := range in.CurrentComments.Paragraphs {
		fmt.Fprintf(&b, "Paragraph %d: %s\n", i+1, para)
	}
	fmt.Fprintf(&b, "Signoff: %s\n", in.CurrentComments.Signoff)
	fmt.Fprintf(&b, "\nFEEDBACK\n%s\n", in.Feedback)
	b.WriteString("\nRevise the previous draft according to the feedback. Return the full revised comments section, not a diff.")
	return b.String()
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
