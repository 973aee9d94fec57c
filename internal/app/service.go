package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"propdesk/api/internal/config"
	"propdesk/api/internal/library"
	"propdesk/api/internal/lint"
	"propdesk/api/internal/narrative"
	"propdesk/api/internal/proposal"
	"propdesk/api/internal/render"
	"propdesk/api/internal/search"
	"propdesk/api/internal/session"
	"propdesk/api/internal/store"
	"propdesk/api/internal/util"
)

// Session is an authenticated workspace session.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

type dataStore interface {
	GetProposal(ctx context.Context, id string) (*proposal.Proposal, error)
	SaveProposal(ctx context.Context, doc *proposal.Proposal) error
	DeleteProposal(ctx context.Context, id string) (bool, error)
	ListProposals(ctx context.Context) ([]store.ProposalRow, error)
	GetBrief(ctx context.Context, id string) (*proposal.ClientBrief, error)
	SaveBrief(ctx context.Context, brief *proposal.ClientBrief) error
	ListBriefs(ctx context.Context) ([]store.BriefRow, error)
	Ping(ctx context.Context) error
}

// Narrator is the narrative-generation collaborator. nil means generation
// is not configured and drafts are assembled with empty comments.
type Narrator interface {
	GenerateComments(ctx context.Context, in narrative.GenerateInput) (narrative.Result, error)
	RegenerateComments(ctx context.Context, in narrative.RegenerateInput) (narrative.Result, error)
}

type searcher interface {
	Search(q search.Query) search.Response
	IndexProposal(rec search.ProposalRecord)
	DeleteProposal(id string)
}

// Service orchestrates proposal assembly, narrative generation, linting,
// persistence, and search indexing.
type Service struct {
	store    dataStore
	catalog  *library.Catalog
	narrator Narrator // nil when no OpenAI key is configured
	search   searcher // nil when search is not wired
	sessions session.Store
	cfg      config.Config
	now      func() time.Time
}

func NewService(st dataStore, catalog *library.Catalog, nar Narrator, srch searcher, sessions session.Store, cfg config.Config) *Service {
	return &Service{
		store:    st,
		catalog:  catalog,
		narrator: nar,
		search:   srch,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Ping checks database connectivity for readiness probes.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// AuthDisabled reports whether workspace login is configured. With no
// password hash set every request is allowed, mirroring local dev usage.
func (s *Service) AuthDisabled() bool {
	return s.cfg.WorkspacePasswordHash == ""
}

// Login checks the shared workspace password and mints a session token.
func (s *Service) Login(ctx context.Context, password string) (Session, error) {
	if s.AuthDisabled() {
		return Session{}, domainError(http.StatusServiceUnavailable, "AUTH_DISABLED", "Workspace login is not configured", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.WorkspacePasswordHash), []byte(password)); err != nil {
		return Session{}, domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid workspace password", nil)
	}

	token := session.NewToken()
	expiresAt := s.now().Add(s.cfg.SessionTTL)
	if err := s.sessions.Save(ctx, session.HashToken(token), expiresAt); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return Session{Token: token, ExpiresAt: expiresAt}, nil
}

// ValidateToken checks a bearer token against the session store.
func (s *Service) ValidateToken(ctx context.Context, token string) error {
	if s.AuthDisabled() {
		return nil
	}
	_, err := s.sessions.Lookup(ctx, session.HashToken(token))
	return err
}

// Logout revokes a session token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, session.HashToken(token))
}

// ImportBrief stores a client brief extracted from the CRM. Briefs with no
// ID get one assigned.
func (s *Service) ImportBrief(ctx context.Context, brief proposal.ClientBrief) (*proposal.ClientBrief, error) {
	if brief.ClientName == "" && brief.Organization == "" {
		return nil, errBadRequest("INVALID_BRIEF", "Brief needs a client name or organization")
	}
	if brief.ID == "" {
		brief.ID = util.NewID("brief")
	}
	if err := s.store.SaveBrief(ctx, &brief); err != nil {
		return nil, fmt.Errorf("save brief: %w", err)
	}
	return &brief, nil
}

func (s *Service) GetBrief(ctx context.Context, id string) (*proposal.ClientBrief, error) {
	return s.store.GetBrief(ctx, id)
}

func (s *Service) ListBriefs(ctx context.Context) ([]store.BriefRow, error) {
	return s.store.ListBriefs(ctx)
}

// CreateProposalInput is the payload for assembling a new proposal.
type CreateProposalInput struct {
	OpportunityID      string   `json:"opportunityId"`
	ClientBriefID      string   `json:"clientBriefId"`
	SelectedServiceIDs []string `json:"selectedServiceIds"`
	ProposalTitle      string   `json:"proposalTitle"`
	CustomInstructions string   `json:"customInstructions"`
}

// CreateProposalResult bundles the stored document with its validation
// report and any non-fatal warnings raised during assembly.
type CreateProposalResult struct {
	Proposal   *proposal.Proposal `json:"proposal"`
	Validation lint.Validation    `json:"validation"`
	Warnings   []string           `json:"warnings"`
}

// CreateProposal runs the full pipeline: brief lookup, deterministic
// skeleton assembly, narrative generation (when configured), lint,
// validation, save, index. Narrative failure is non-fatal; the draft is
// saved with empty comments and the failure is reported as a warning.
func (s *Service) CreateProposal(ctx context.Context, in CreateProposalInput) (*CreateProposalResult, error) {
	if in.OpportunityID == "" {
		return nil, errBadRequest("MISSING_OPPORTUNITY_ID", "opportunityId is required")
	}
	if len(in.SelectedServiceIDs) == 0 {
		return nil, errBadRequest("NO_SERVICES_SELECTED", "At least one service must be selected")
	}

	brief, err := s.store.GetBrief(ctx, in.ClientBriefID)
	if err != nil {
		return nil, fmt.Errorf("get brief %s: %w", in.ClientBriefID, err)
	}

	warnings := []string{}
	doc := proposal.AssembleSkeleton(proposal.AssembleInput{
		OpportunityID:       in.OpportunityID,
		Brief:               *brief,
		SelectedServiceKeys: in.SelectedServiceIDs,
		ProposalTitle:       in.ProposalTitle,
		BrandName:           s.cfg.BrandName,
		PreparerName:        s.cfg.PreparerName,
	}, s.catalog, s.now(), func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Printf("assemble %s: %s", in.OpportunityID, msg)
		warnings = append(warnings, msg)
	})

	if len(doc.Services) == 0 {
		return nil, errBadRequest("NO_KNOWN_SERVICES", "None of the selected services exist in the library")
	}

	// The document id is derived from the opportunity id, so a repeat POST
	// would upsert over the stored proposal. Refuse instead of clobbering.
	if _, err := s.store.GetProposal(ctx, doc.ID); err == nil {
		return nil, errConflict("PROPOSAL_EXISTS", "A proposal for this opportunity already exists", nil)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check existing proposal %s: %w", doc.ID, err)
	}

	if s.narrator != nil {
		result, genErr := s.narrator.GenerateComments(ctx, narrative.GenerateInput{
			Brief:                       *brief,
			SelectedServiceDisplayNames: serviceDisplayNames(doc),
			CustomInstructions:          in.CustomInstructions,
			PreparerName:                s.cfg.PreparerName,
		})
		if genErr != nil {
			log.Printf("narrative generation for %s failed: %v", doc.ID, genErr)
			warnings = append(warnings, "narrative generation failed; comments left empty")
		} else {
			doc.ReplaceComments(result.Comments, s.now())
			if in.ProposalTitle == "" && result.ProposalTitle != "" {
				title := result.ProposalTitle
				doc.UpdateCoverBlock(proposal.CoverPatch{Title: &title}, s.now())
			}
		}
	} else {
		warnings = append(warnings, "narrative generation not configured; comments left empty")
	}

	doc = lint.LintProposal(doc, s.now())
	validation := lint.ValidateProposal(doc)

	if err := s.store.SaveProposal(ctx, doc); err != nil {
		return nil, fmt.Errorf("save proposal: %w", err)
	}
	s.indexProposal(doc)

	return &CreateProposalResult{Proposal: doc, Validation: validation, Warnings: warnings}, nil
}

func serviceDisplayNames(doc *proposal.Proposal) []string {
	names := make([]string, 0, len(doc.Services))
	for _, svc := range doc.Services {
		names = append(names, svc.Template.DisplayName)
	}
	return names
}

func (s *Service) GetProposal(ctx context.Context, id string) (*proposal.Proposal, error) {
	return s.store.GetProposal(ctx, id)
}

func (s *Service) ListProposals(ctx context.Context) ([]store.ProposalRow, error) {
	return s.store.ListProposals(ctx)
}

// SearchProposals runs a full-text query through the search facade.
func (s *Service) SearchProposals(q search.Query) search.Response {
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Query: q.Text}
	}
	return s.search.Search(q)
}

// PatchCommentsInput either carries a manual edit or asks for a regeneration
// with feedback. Regenerate wins when both are set.
type PatchCommentsInput struct {
	Comments   *proposal.CommentsPatch `json:"comments"`
	Regenerate bool                    `json:"regenerate"`
	Feedback   string                  `json:"feedback"`
}

// PatchComments applies a manual comments edit or regenerates the block via
// the narrative collaborator. Every path re-lints before persisting.
func (s *Service) PatchComments(ctx context.Context, id string, in PatchCommentsInput) (*proposal.Proposal, error) {
	doc, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditable(doc); err != nil {
		return nil, err
	}

	switch {
	case in.Regenerate:
		if s.narrator == nil {
			return nil, domainError(http.StatusServiceUnavailable, "NARRATIVE_UNAVAILABLE", "Narrative generation is not configured", nil)
		}
		result, err := s.narrator.RegenerateComments(ctx, narrative.RegenerateInput{
			GenerateInput: narrative.GenerateInput{
				Brief:                       briefFromCover(doc.Cover),
				SelectedServiceDisplayNames: serviceDisplayNames(doc),
				PreparerName:                s.cfg.PreparerName,
			},
			CurrentComments: doc.Comments,
			Feedback:        in.Feedback,
		})
		if err != nil {
			return nil, mapNarrativeError(err)
		}
		doc.ReplaceComments(result.Comments, s.now())
	case in.Comments != nil:
		doc.UpdateCommentsBlock(*in.Comments, s.now())
	default:
		return nil, errBadRequest("EMPTY_PATCH", "Provide comments or set regenerate")
	}

	return s.lintAndSave(ctx, doc)
}

// briefFromCover reconstructs the client facts needed for a regeneration
// prompt from the stored cover block.
func briefFromCover(cover proposal.Cover) proposal.ClientBrief {
	return proposal.ClientBrief{
		ClientName:   cover.ClientName,
		Organization: cover.Organization,
		Email:        cover.ClientEmail,
	}
}

func mapNarrativeError(err error) error {
	var transport *narrative.TransportError
	if errors.As(err, &transport) {
		if transport.IsRateLimit() {
			return domainError(http.StatusServiceUnavailable, "NARRATIVE_RATE_LIMITED", "Narrative collaborator is rate limited, try again shortly", nil)
		}
		if transport.IsAuthError() {
			return domainError(http.StatusBadGateway, "NARRATIVE_AUTH", "Narrative collaborator rejected our credentials", nil)
		}
		return domainError(http.StatusBadGateway, "NARRATIVE_TRANSPORT", "Narrative collaborator is unreachable", nil)
	}
	if errors.Is(err, narrative.ErrInvalidOutput) || errors.Is(err, narrative.ErrMalformedOutput) {
		return domainError(http.StatusBadGateway, "NARRATIVE_OUTPUT", "Narrative collaborator returned unusable output", nil)
	}
	return err
}

// PatchCover applies a partial cover edit.
func (s *Service) PatchCover(ctx context.Context, id string, patch proposal.CoverPatch) (*proposal.Proposal, error) {
	doc, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditable(doc); err != nil {
		return nil, err
	}
	doc.UpdateCoverBlock(patch, s.now())
	return s.lintAndSave(ctx, doc)
}

// PatchServiceInput carries optional override and enablement changes for one
// service block.
type PatchServiceInput struct {
	Overrides          map[string]string   `json:"overrides"`
	Enabled            *bool               `json:"enabled"`
	InvestmentOverride *library.Investment `json:"investmentOverride"`
}

// PatchService merges overrides and toggles enablement on one service block.
func (s *Service) PatchService(ctx context.Context, id, serviceKey string, in PatchServiceInput) (*proposal.Proposal, error) {
	doc, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditable(doc); err != nil {
		return nil, err
	}

	if len(in.Overrides) > 0 {
		if err := doc.UpdateServiceOverrides(serviceKey, in.Overrides, s.now()); err != nil {
			return nil, mapServiceError(serviceKey, err)
		}
	}
	if in.Enabled != nil {
		if err := doc.ToggleServiceEnabled(serviceKey, *in.Enabled, s.now()); err != nil {
			return nil, mapServiceError(serviceKey, err)
		}
	}
	if in.InvestmentOverride != nil {
		if err := doc.SetInvestmentOverride(serviceKey, in.InvestmentOverride, s.now()); err != nil {
			return nil, mapServiceError(serviceKey, err)
		}
	}

	return s.lintAndSave(ctx, doc)
}

func mapServiceError(serviceKey string, err error) error {
	if errors.Is(err, proposal.ErrServiceNotFound) {
		return errNotFound(fmt.Sprintf("Service %s is not part of this proposal", serviceKey))
	}
	return err
}

// AddModule appends a custom content module to a proposal.
func (s *Service) AddModule(ctx context.Context, id string, in proposal.ModuleInput) (*proposal.Proposal, error) {
	if in.ModuleKey == "" {
		return nil, errBadRequest("MISSING_MODULE_KEY", "moduleKey is required")
	}
	doc, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditable(doc); err != nil {
		return nil, err
	}
	doc.AddModule(in, s.now())
	return s.lintAndSave(ctx, doc)
}

// RemoveModule removes every module with the given key.
func (s *Service) RemoveModule(ctx context.Context, id, moduleKey string) (*proposal.Proposal, error) {
	doc, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditable(doc); err != nil {
		return nil, err
	}
	doc.RemoveModule(moduleKey, s.now())
	return s.lintAndSave(ctx, doc)
}

// Render produces the proposal in the requested output format.
func (s *Service) Render(ctx context.Context, id string, format render.Format) (*render.Result, error) {
	doc, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	result, err := render.Render(doc, format)
	if err != nil {
		if errors.Is(err, render.ErrUnsupportedFormat) {
			return nil, errBadRequest("UNSUPPORTED_FORMAT", fmt.Sprintf("Unknown render format %q", format))
		}
		if errors.Is(err, render.ErrPDFDependencyMissing) {
			return nil, domainError(http.StatusServiceUnavailable, "PDF_UNAVAILABLE", "PDF rendering requires a headless browser on the server", nil)
		}
		return nil, fmt.Errorf("render %s as %s: %w", id, format, err)
	}
	return result, nil
}

// Validate runs the structural checks without mutating the document.
func (s *Service) Validate(ctx context.Context, id string) (lint.Validation, error) {
	doc, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return lint.Validation{}, err
	}
	return lint.ValidateProposal(doc), nil
}

// UpdateStatus advances the proposal lifecycle. Transitions are forward
// only: draft to complete, complete to sent. Marking complete requires the
// validator to pass.
func (s *Service) UpdateStatus(ctx context.Context, id string, next proposal.Status) (*proposal.Proposal, error) {
	doc, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	switch next {
	case proposal.StatusComplete:
		if doc.Status != proposal.StatusDraft {
			return nil, errConflict("INVALID_TRANSITION", fmt.Sprintf("Cannot move from %s to complete", doc.Status), nil)
		}
		validation := lint.ValidateProposal(doc)
		if !validation.Valid {
			return nil, errConflict("VALIDATION_FAILED", "Proposal has validation errors", validation.Errors)
		}
	case proposal.StatusSent:
		if doc.Status != proposal.StatusComplete {
			return nil, errConflict("INVALID_TRANSITION", fmt.Sprintf("Cannot move from %s to sent", doc.Status), nil)
		}
	case proposal.StatusDraft:
		return nil, errConflict("INVALID_TRANSITION", "Proposals cannot move backward to draft", nil)
	default:
		return nil, errBadRequest("UNKNOWN_STATUS", fmt.Sprintf("Unknown status %q", next))
	}

	doc.Status = next
	doc.UpdatedAt = s.now()
	if err := s.store.SaveProposal(ctx, doc); err != nil {
		return nil, fmt.Errorf("save proposal: %w", err)
	}
	s.indexProposal(doc)
	return doc, nil
}

// DeleteProposal removes the document and its search index entry.
func (s *Service) DeleteProposal(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteProposal(ctx, id)
	if err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}
	if !deleted {
		return errNotFound("Proposal not found")
	}
	if s.search != nil {
		s.search.DeleteProposal(id)
	}
	return nil
}

// requireEditable rejects content mutations on sent proposals.
func (s *Service) requireEditable(doc *proposal.Proposal) error {
	if doc.Status == proposal.StatusSent {
		return errConflict("PROPOSAL_SENT", "Sent proposals can no longer be edited", nil)
	}
	return nil
}

// lintAndSave is the shared tail of every mutation: re-lint, persist,
// reindex.
func (s *Service) lintAndSave(ctx context.Context, doc *proposal.Proposal) (*proposal.Proposal, error) {
	doc = lint.LintProposal(doc, s.now())
	if err := s.store.SaveProposal(ctx, doc); err != nil {
		return nil, fmt.Errorf("save proposal: %w", err)
	}
	s.indexProposal(doc)
	return doc, nil
}

func (s *Service) indexProposal(doc *proposal.Proposal) {
	if s.search == nil {
		return
	}
	s.search.IndexProposal(search.ProposalRecord{
		ID:           doc.ID,
		Title:        doc.Cover.Title,
		ClientName:   doc.Cover.ClientName,
		Organization: doc.Cover.Organization,
		Status:       string(doc.Status),
	})
}
