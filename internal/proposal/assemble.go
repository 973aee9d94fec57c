package proposal

import (
	"errors"
	"fmt"
	"time"

	"propdesk/api/internal/library"
)

// ErrServiceNotFound is returned by mutation operations targeting a service
// key the proposal does not carry. The document is untouched when this is
// returned.
var ErrServiceNotFound = errors.New("service not found in proposal")

const (
	defaultClientName   = "Valued Client"
	commentsHeading     = "Our Thoughts"
	itemizedPlaceholder = "Line items and totals are managed in the CRM estimate linked to this opportunity."
	signaturePlaceholder = "Signature collection is handled through the document sent from the CRM."
)

// AssembleInput carries everything the skeleton builder needs. The caller
// (route layer) guarantees SelectedServiceKeys is non-empty at the API
// boundary; the assembler itself tolerates zero resolved services and leaves
// it for validation to flag.
type AssembleInput struct {
	OpportunityID       string
	Brief               ClientBrief
	SelectedServiceKeys []string
	ProposalTitle       string
	BrandName           string
	PreparerName        string
}

// AssembleSkeleton deterministically builds a draft proposal from the brief,
// the selected service keys, and the content library. Unknown service keys
// are dropped with a warning through warnf (nil warnf is fine). The comments
// block always comes back with zero paragraphs; assembly never fabricates
// narrative text.
func AssembleSkeleton(in AssembleInput, catalog *library.Catalog, now time.Time, warnf func(format string, args ...any)) *Proposal {
	services := make([]ServiceBlock, 0, len(in.SelectedServiceKeys))
	for _, key := range in.SelectedServiceKeys {
		tpl := catalog.Template(key)
		if tpl == nil {
			if warnf != nil {
				warnf("assemble: unknown service key %q dropped", key)
			}
			continue
		}
		services = append(services, ServiceBlock{
			Template: ServiceCopy{
				ServiceKey:  tpl.ServiceKey,
				DisplayName: tpl.DisplayName,
				Subsections: tpl.Subsections,
				Investment:  tpl.Investment,
				Timeline:    tpl.Timeline,
				Outcome:     tpl.Outcome,
			},
			Enabled:   true,
			Overrides: map[string]string{},
		})
	}

	clientName := resolveClientName(in.Brief)
	title := in.ProposalTitle
	if title == "" {
		title = fmt.Sprintf("Marketing Proposal for %s", resolveOrganization(in.Brief, clientName))
	}

	return &Proposal{
		ID: "prop_" + in.OpportunityID,
		Version: Version{
			TemplateVersion:       library.TemplateVersion,
			ServiceLibraryVersion: library.ServiceLibraryVersion,
			TermsVersion:          library.TermsVersion,
		},
		Cover: Cover{
			Title:        title,
			BrandName:    in.BrandName,
			PreparedBy:   in.PreparerName,
			PreparedDate: now.Format("January 2, 2006"),
			ClientName:   clientName,
			Organization: resolveOrganization(in.Brief, clientName),
			ClientEmail:  in.Brief.Email,
		},
		Comments: CommentsBlock{
			Heading:      commentsHeading,
			GreetingLine: fmt.Sprintf("Hi %s,", firstName(clientName)),
			Paragraphs:   []string{},
			Signoff:      in.PreparerName,
		},
		Services: services,
		Modules:  []ModuleBlock{},
		Itemized: ReferenceBlock{
			Placeholder: itemizedPlaceholder,
			ReferenceID: in.OpportunityID,
		},
		Terms: catalog.Terms(),
		Signatures: ReferenceBlock{
			Placeholder: signaturePlaceholder,
			ReferenceID: in.OpportunityID,
		},
		StyleRules: StyleRules{
			ForbidEmDash:        true,
			Tone:                "confident, direct, client-friendly",
			NumberedSubsections: true,
			CapsServiceTitles:   true,
			BulletsStyle:        "dash",
		},
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// resolveClientName falls back contact name -> organization -> placeholder.
func resolveClientName(brief ClientBrief) string {
	if brief.ClientName != "" {
		return brief.ClientName
	}
	if brief.Organization != "" {
		return brief.Organization
	}
	return defaultClientName
}

func resolveOrganization(brief ClientBrief, clientName string) string {
	if brief.Organization != "" {
		return brief.Organization
	}
	return clientName
}

func firstName(full string) string {
	for i, r := range full {
		if r == ' ' {
			return full[:i]
		}
	}
	return full
}

// CommentsPatch is a partial comments update. Nil fields are left alone.
type CommentsPatch struct {
	Heading      *string   `json:"heading"`
	GreetingLine *string   `json:"greetingLine"`
	Paragraphs   *[]string `json:"paragraphs"`
	Signoff      *string   `json:"signoff"`
}

// CoverPatch is a partial cover update. Nil fields are left alone.
type CoverPatch struct {
	Title        *string `json:"title"`
	BrandName    *string `json:"brandName"`
	PreparedBy   *string `json:"preparedBy"`
	PreparedDate *string `json:"preparedDate"`
	ClientName   *string `json:"clientName"`
	Organization *string `json:"organization"`
	ClientEmail  *string `json:"clientEmail"`
}

// ModuleInput is the payload for AddModule.
type ModuleInput struct {
	ModuleKey    string `json:"moduleKey"`
	TitleCaps    string `json:"titleCaps"`
	BodyMarkdown string `json:"bodyMarkdown"`
}

// UpdateCommentsBlock merges the patch into the comments block. Unknown
// fields are rejected by the patch shape itself; linting is the caller's
// job before persisting.
func (p *Proposal) UpdateCommentsBlock(patch CommentsPatch, now time.Time) {
	if patch.Heading != nil {
		p.Comments.Heading = *patch.Heading
	}
	if patch.GreetingLine != nil {
		p.Comments.GreetingLine = *patch.GreetingLine
	}
	if patch.Paragraphs != nil {
		p.Comments.Paragraphs = append([]string(nil), (*patch.Paragraphs)...)
	}
	if patch.Signoff != nil {
		p.Comments.Signoff = *patch.Signoff
	}
	p.UpdatedAt = now
}

// ReplaceComments swaps the whole comments block, used after regeneration.
// The previous block is discarded; only one comments draft is ever kept.
func (p *Proposal) ReplaceComments(comments CommentsBlock, now time.Time) {
	comments.Paragraphs = append([]string(nil), comments.Paragraphs...)
	p.Comments = comments
	p.UpdatedAt = now
}

// UpdateCoverBlock merges the patch into the cover block.
func (p *Proposal) UpdateCoverBlock(patch CoverPatch, now time.Time) {
	if patch.Title != nil {
		p.Cover.Title = *patch.Title
	}
	if patch.BrandName != nil {
		p.Cover.BrandName = *patch.BrandName
	}
	if patch.PreparedBy != nil {
		p.Cover.PreparedBy = *patch.PreparedBy
	}
	if patch.PreparedDate != nil {
		p.Cover.PreparedDate = *patch.PreparedDate
	}
	if patch.ClientName != nil {
		p.Cover.ClientName = *patch.ClientName
	}
	if patch.Organization != nil {
		p.Cover.Organization = *patch.Organization
	}
	if patch.ClientEmail != nil {
		p.Cover.ClientEmail = *patch.ClientEmail
	}
	p.UpdatedAt = now
}

// UpdateServiceOverrides merges the patch into the service's override map.
// New keys are added, existing keys replaced; the template copy underneath
// is never modified. Returns ErrServiceNotFound, with the document
// untouched, if the key is absent.
func (p *Proposal) UpdateServiceOverrides(serviceKey string, patch map[string]string, now time.Time) error {
	svc := p.Service(serviceKey)
	if svc == nil {
		return fmt.Errorf("update overrides for %q: %w", serviceKey, ErrServiceNotFound)
	}
	if svc.Overrides == nil {
		svc.Overrides = make(map[string]string, len(patch))
	}
	for k, v := range patch {
		svc.Overrides[k] = v
	}
	p.UpdatedAt = now
	return nil
}

// ToggleServiceEnabled flips only the enabled flag. Disabling hides the
// service from rendering but keeps its block, overrides included, so it can
// be re-enabled without re-fetching the library. Position in the services
// list is preserved.
func (p *Proposal) ToggleServiceEnabled(serviceKey string, enabled bool, now time.Time) error {
	svc := p.Service(serviceKey)
	if svc == nil {
		return fmt.Errorf("toggle %q: %w", serviceKey, ErrServiceNotFound)
	}
	svc.Enabled = enabled
	p.UpdatedAt = now
	return nil
}

// SetInvestmentOverride replaces the per-proposal investment override for a
// service; nil clears it back to the template investment.
func (p *Proposal) SetInvestmentOverride(serviceKey string, inv *library.Investment, now time.Time) error {
	svc := p.Service(serviceKey)
	if svc == nil {
		return fmt.Errorf("investment override for %q: %w", serviceKey, ErrServiceNotFound)
	}
	if inv == nil {
		svc.InvestmentOverride = nil
	} else {
		cloned := *inv
		svc.InvestmentOverride = &cloned
	}
	p.UpdatedAt = now
	return nil
}

// AddModule appends a new enabled module. Duplicate keys are appended as-is,
// not deduplicated; RemoveModule clears all entries for a key.
func (p *Proposal) AddModule(in ModuleInput, now time.Time) {
	p.Modules = append(p.Modules, ModuleBlock{
		Key:          in.ModuleKey,
		Title:        in.TitleCaps,
		BodyMarkdown: in.BodyMarkdown,
		Enabled:      true,
	})
	p.UpdatedAt = now
}

// RemoveModule filters out every module matching the key, duplicates
// included.
func (p *Proposal) RemoveModule(moduleKey string, now time.Time) {
	kept := p.Modules[:0]
	for _, m := range p.Modules {
		if m.Key != moduleKey {
			kept = append(kept, m)
		}
	}
	p.Modules = kept
	p.UpdatedAt = now
}

// OverrideKey builds the override map key for a subsection number.
func OverrideKey(subsectionNumber int) string {
	return fmt.Sprintf("subsection_%d", subsectionNumber)
}

// ResolveSubsectionBody returns the text the renderer should emit for a
// subsection: the override when present and non-empty, else the stored
// template body. Resolved at render time so unrelated library upgrades never
// disturb existing proposals.
func (s *ServiceBlock) ResolveSubsectionBody(sub library.Subsection) string {
	if body, ok := s.Overrides[OverrideKey(sub.Number)]; ok && body != "" {
		return body
	}
	return sub.BodyMarkdown
}

// ResolveInvestment returns the investment override when set, else the
// template investment.
func (s *ServiceBlock) ResolveInvestment() library.Investment {
	if s.InvestmentOverride != nil {
		return *s.InvestmentOverride
	}
	return s.Template.Investment
}
