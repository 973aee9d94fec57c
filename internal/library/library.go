// Package library holds the versioned catalog of pre-written proposal
// content: service templates and the legal terms block. Catalog data is
// immutable at runtime; accessors hand out deep copies so callers can never
// mutate the shared entries.
package library

// Version constants for the three independently evolving content sets.
// Proposals are stamped with whichever versions were active at assembly time
// and stay bound to them.
const (
	TemplateVersion       = "2025.2"
	ServiceLibraryVersion = "2025.08.1"
	TermsVersion          = "2025.06"
)

// InvestmentModel describes how a service is billed.
type InvestmentModel string

const (
	InvestmentOneTime   InvestmentModel = "one_time"
	InvestmentMonthly   InvestmentModel = "monthly"
	InvestmentQuarterly InvestmentModel = "quarterly"
	InvestmentCustom    InvestmentModel = "custom"
)

// Investment is the pricing record attached to a service template.
// RenderHint is the precomputed display string the renderer emits verbatim.
type Investment struct {
	Model      InvestmentModel `json:"model"`
	Amount     float64         `json:"amount"`
	Currency   string          `json:"currency"`
	Notes      string          `json:"notes,omitempty"`
	RenderHint string          `json:"renderHint"`
}

// Subsection is a numbered, titled content unit within a service.
type Subsection struct {
	Number                   int    `json:"number"`
	Title                    string `json:"title"`
	BodyMarkdown             string `json:"bodyMarkdown"`
	AllowClientSpecificEdits bool   `json:"allowClientSpecificEdits"`
}

// ServiceTemplate is an immutable catalog entry.
type ServiceTemplate struct {
	ServiceKey  string       `json:"serviceKey"`
	DisplayName string       `json:"displayName"`
	Subsections []Subsection `json:"subsections"`
	Investment  Investment   `json:"investment"`
	Timeline    string       `json:"timeline,omitempty"`
	Outcome     string       `json:"outcome,omitempty"`
}

// Clause is a single numbered entry in the legal terms block.
type Clause struct {
	Number int    `json:"number"`
	Title  string `json:"title,omitempty"`
	Body   string `json:"body"`
}

// TermsBlock is the full legal content copied into each proposal.
type TermsBlock struct {
	Version string   `json:"version"`
	Clauses []Clause `json:"clauses"`
}

// Catalog serves templates and terms. Safe for unlimited concurrent readers.
type Catalog struct {
	templates []ServiceTemplate
	byKey     map[string]int
	terms     TermsBlock
}

// NewCatalog builds the catalog from the built-in content sets.
func NewCatalog() *Catalog {
	c := &Catalog{
		templates: serviceTemplates,
		byKey:     make(map[string]int, len(serviceTemplates)),
		terms:     standardTerms,
	}
	for i, tpl := range c.templates {
		c.byKey[tpl.ServiceKey] = i
	}
	return c
}

// Template returns a deep copy of the template for serviceKey, or nil if the
// key is unknown. A missing key is not an error here; the assembler decides
// whether it is fatal.
func (c *Catalog) Template(serviceKey string) *ServiceTemplate {
	idx, ok := c.byKey[serviceKey]
	if !ok {
		return nil
	}
	cloned := cloneTemplate(c.templates[idx])
	return &cloned
}

// Templates returns deep copies of every catalog entry in catalog order.
func (c *Catalog) Templates() []ServiceTemplate {
	out := make([]ServiceTemplate, len(c.templates))
	for i, tpl := range c.templates {
		out[i] = cloneTemplate(tpl)
	}
	return out
}

// Terms returns a deep copy of the current legal terms block.
func (c *Catalog) Terms() TermsBlock {
	return CloneTerms(c.terms)
}

func cloneTemplate(tpl ServiceTemplate) ServiceTemplate {
	out := tpl
	out.Subsections = make([]Subsection, len(tpl.Subsections))
	copy(out.Subsections, tpl.Subsections)
	return out
}

// CloneTerms deep-copies a terms block. Exported because proposals carry
// their own copy of the terms and need the same clone when duplicated.
func CloneTerms(t TermsBlock) TermsBlock {
	out := t
	out.Clauses = make([]Clause, len(t.Clauses))
	copy(out.Clauses, t.Clauses)
	return out
}
