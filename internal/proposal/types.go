// Package proposal defines the proposal document aggregate and the
// deterministic assembly and mutation operations over it. Everything here is
// synchronous, pure CPU work; persistence and narrative generation live in
// their own packages.
package proposal

import (
	"time"

	"propdesk/api/internal/library"
)

// Status is the forward-only proposal lifecycle.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusComplete Status = "complete"
	StatusSent     Status = "sent"
)

// Version records which content library versions a proposal was assembled
// from. Never upgraded after creation.
type Version struct {
	TemplateVersion       string `json:"templateVersion"`
	ServiceLibraryVersion string `json:"serviceLibraryVersion"`
	TermsVersion          string `json:"termsVersion"`
}

// Cover is the deterministic client-facing header. Never AI-generated.
type Cover struct {
	Title        string `json:"title"`
	BrandName    string `json:"brandName"`
	PreparedBy   string `json:"preparedBy"`
	PreparedDate string `json:"preparedDate"`
	ClientName   string `json:"clientName"`
	Organization string `json:"organization"`
	ClientEmail  string `json:"clientEmail,omitempty"`
}

// CommentsBlock is the single narrative section of a proposal and the only
// field ever populated by the text-generation collaborator.
type CommentsBlock struct {
	Heading      string   `json:"heading"`
	GreetingLine string   `json:"greetingLine"`
	Paragraphs   []string `json:"paragraphs"`
	Signoff      string   `json:"signoff"`
}

// ServiceBlock is a per-proposal copy of a library template plus the enabled
// flag and override map. Overrides are additive deltas keyed
// "subsection_<N>"; the template copy underneath is never touched, which is
// how the UI distinguishes edited subsections from defaults.
type ServiceBlock struct {
	Template           ServiceCopy         `json:"template"`
	Enabled            bool                `json:"enabled"`
	Overrides          map[string]string   `json:"overrides"`
	InvestmentOverride *library.Investment `json:"investmentOverride,omitempty"`
}

// ServiceCopy carries the template fields a proposal snapshots at assembly.
type ServiceCopy struct {
	ServiceKey  string               `json:"serviceKey"`
	DisplayName string               `json:"displayName"`
	Subsections []library.Subsection `json:"subsections"`
	Investment  library.Investment   `json:"investment"`
	Timeline    string               `json:"timeline,omitempty"`
	Outcome     string               `json:"outcome,omitempty"`
}

// ModuleBlock is a free-form content addition not tied to any service.
type ModuleBlock struct {
	Key          string `json:"key"`
	Title        string `json:"title,omitempty"`
	BodyMarkdown string `json:"bodyMarkdown"`
	Enabled      bool   `json:"enabled"`
}

// ReferenceBlock points at an external system (CRM line items, e-signature)
// by placeholder text and/or reference id. The core never computes totals.
type ReferenceBlock struct {
	Placeholder string `json:"placeholder,omitempty"`
	ReferenceID string `json:"referenceId,omitempty"`
}

// StyleRules is consulted by the linter and renderer. ForbidEmDash is always
// true for house style.
type StyleRules struct {
	ForbidEmDash        bool   `json:"forbidEmDash"`
	Tone                string `json:"tone"`
	NumberedSubsections bool   `json:"numberedSubsections"`
	CapsServiceTitles   bool   `json:"capsServiceTitles"`
	BulletsStyle        string `json:"bulletsStyle"`
}

// Proposal is the central aggregate, stored whole as a JSON document.
type Proposal struct {
	ID         string             `json:"id"`
	Version    Version            `json:"version"`
	Cover      Cover              `json:"cover"`
	Comments   CommentsBlock      `json:"comments"`
	Services   []ServiceBlock     `json:"services"`
	Modules    []ModuleBlock      `json:"modules"`
	Itemized   ReferenceBlock     `json:"itemized"`
	Terms      library.TermsBlock `json:"terms"`
	Signatures ReferenceBlock     `json:"signatures"`
	StyleRules StyleRules         `json:"styleRules"`
	Status     Status             `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// ClientBrief is the extracted client data a proposal is assembled from.
// Owned by the CRM/brief-extraction side; read-only here.
type ClientBrief struct {
	ID            string   `json:"id"`
	ClientName    string   `json:"clientName"`
	Organization  string   `json:"organization"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Goals         []string `json:"goals,omitempty"`
	PainPoints    []string `json:"painPoints,omitempty"`
	Opportunities []string `json:"opportunities,omitempty"`
	TranscriptRef string   `json:"transcriptRef,omitempty"`
}

// Service returns the service block for key, or nil if the proposal does not
// carry it.
func (p *Proposal) Service(serviceKey string) *ServiceBlock {
	for i := range p.Services {
		if p.Services[i].Template.ServiceKey == serviceKey {
			return &p.Services[i]
		}
	}
	return nil
}

// EnabledServiceCount reports how many services are currently enabled.
func (p *Proposal) EnabledServiceCount() int {
	n := 0
	for i := range p.Services {
		if p.Services[i].Enabled {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the proposal. Field-by-field on purpose:
// a serialization round-trip would silently share nothing but also hide
// shape drift, and this copy is exercised on every store read.
func (p *Proposal) Clone() *Proposal {
	if p == nil {
		return nil
	}
	out := *p
	out.Comments.Paragraphs = append([]string(nil), p.Comments.Paragraphs...)
	out.Services = make([]ServiceBlock, len(p.Services))
	for i, svc := range p.Services {
		out.Services[i] = cloneServiceBlock(svc)
	}
	out.Modules = append([]ModuleBlock(nil), p.Modules...)
	out.Terms = library.CloneTerms(p.Terms)
	return &out
}

func cloneServiceBlock(svc ServiceBlock) ServiceBlock {
	out := svc
	out.Template.Subsections = append([]library.Subsection(nil), svc.Template.Subsections...)
	out.Overrides = make(map[string]string, len(svc.Overrides))
	for k, v := range svc.Overrides {
		out.Overrides[k] = v
	}
	if svc.InvestmentOverride != nil {
		inv := *svc.InvestmentOverride
		out.InvestmentOverride = &inv
	}
	return out
}
