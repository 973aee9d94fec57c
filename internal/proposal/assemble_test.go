package proposal

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"propdesk/api/internal/library"
)

var testNow = time.Date(2025, 8, 12, 9, 30, 0, 0, time.UTC)

func assemble(t *testing.T, keys ...string) *Proposal {
	t.Helper()
	return AssembleSkeleton(AssembleInput{
		OpportunityID:       "op-7001",
		Brief:               ClientBrief{ClientName: "Sara Ortiz", Organization: "Ortiz Retail", Email: "sara@ortiz.example"},
		SelectedServiceKeys: keys,
		BrandName:           "Propdesk Agency",
		PreparerName:        "Kathryn",
	}, library.NewCatalog(), testNow, nil)
}

func TestAssembleSkeletonDeterministic(t *testing.T) {
	a := assemble(t, "marketing_machine", "seo_hosting")
	b := assemble(t, "marketing_machine", "seo_hosting")
	if !reflect.DeepEqual(a, b) {
		t.Error("assembling the same input twice should produce identical documents")
	}
}

func TestAssembleSkeletonBasics(t *testing.T) {
	doc := assemble(t, "marketing_machine")

	if doc.ID != "prop_op-7001" {
		t.Errorf("ID = %q", doc.ID)
	}
	if doc.Status != StatusDraft {
		t.Errorf("status = %q, want draft", doc.Status)
	}
	if doc.Cover.ClientName != "Sara Ortiz" {
		t.Errorf("client name = %q", doc.Cover.ClientName)
	}
	if doc.Comments.GreetingLine != "Hi Sara," {
		t.Errorf("greeting = %q", doc.Comments.GreetingLine)
	}
	if len(doc.Comments.Paragraphs) != 0 {
		t.Errorf("skeleton must never carry narrative paragraphs, got %v", doc.Comments.Paragraphs)
	}
	if doc.Version.ServiceLibraryVersion != library.ServiceLibraryVersion {
		t.Errorf("library version = %q", doc.Version.ServiceLibraryVersion)
	}
	if len(doc.Terms.Clauses) == 0 {
		t.Error("skeleton should snapshot the standard terms")
	}
	if doc.Itemized.ReferenceID != "op-7001" {
		t.Errorf("itemized reference = %q", doc.Itemized.ReferenceID)
	}
}

func TestAssembleSkeletonDropsUnknownKeys(t *testing.T) {
	var warned []string
	doc := AssembleSkeleton(AssembleInput{
		OpportunityID:       "op-7002",
		Brief:               ClientBrief{ClientName: "Sara Ortiz"},
		SelectedServiceKeys: []string{"marketing_machine", "bogus_key"},
	}, library.NewCatalog(), testNow, func(format string, args ...any) {
		warned = append(warned, fmt.Sprintf(format, args...))
	})

	if len(doc.Services) != 1 {
		t.Fatalf("expected 1 service, got %d", len(doc.Services))
	}
	if len(warned) != 1 {
		t.Fatalf("expected one warning, got %v", warned)
	}
}

func TestAssembleSkeletonClientNameFallback(t *testing.T) {
	doc := AssembleSkeleton(AssembleInput{
		OpportunityID:       "op-7003",
		Brief:               ClientBrief{},
		SelectedServiceKeys: []string{"marketing_machine"},
	}, library.NewCatalog(), testNow, nil)
	if doc.Cover.ClientName != "Valued Client" {
		t.Errorf("client name = %q", doc.Cover.ClientName)
	}

	doc = AssembleSkeleton(AssembleInput{
		OpportunityID:       "op-7004",
		Brief:               ClientBrief{Organization: "Ortiz Retail"},
		SelectedServiceKeys: []string{"marketing_machine"},
	}, library.NewCatalog(), testNow, nil)
	if doc.Cover.ClientName != "Ortiz Retail" {
		t.Errorf("client name should fall back to organization, got %q", doc.Cover.ClientName)
	}
}

func TestUpdateServiceOverridesMerges(t *testing.T) {
	doc := assemble(t, "marketing_machine")
	later := testNow.Add(time.Hour)

	if err := doc.UpdateServiceOverrides("marketing_machine", map[string]string{
		OverrideKey(1): "first body",
		OverrideKey(2): "second body",
	}, later); err != nil {
		t.Fatal(err)
	}
	if err := doc.UpdateServiceOverrides("marketing_machine", map[string]string{
		OverrideKey(2): "revised second body",
	}, later); err != nil {
		t.Fatal(err)
	}

	svc := doc.Service("marketing_machine")
	if svc.Overrides[OverrideKey(1)] != "first body" {
		t.Error("untouched override key should survive a later patch")
	}
	if svc.Overrides[OverrideKey(2)] != "revised second body" {
		t.Error("patched override key should be replaced")
	}
	if !doc.UpdatedAt.Equal(later) {
		t.Error("UpdatedAt should be bumped")
	}
}

func TestUpdateServiceOverridesUnknownServiceLeavesDocUntouched(t *testing.T) {
	doc := assemble(t, "marketing_machine")
	before := doc.Clone()

	err := doc.UpdateServiceOverrides("nope", map[string]string{OverrideKey(1): "x"}, testNow.Add(time.Hour))
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
	if !reflect.DeepEqual(before, doc) {
		t.Error("failed update must not modify the document")
	}
}

func TestToggleServiceEnabledIsolated(t *testing.T) {
	doc := assemble(t, "marketing_machine", "seo_hosting")

	if err := doc.UpdateServiceOverrides("seo_hosting", map[string]string{OverrideKey(1): "custom"}, testNow); err != nil {
		t.Fatal(err)
	}
	if err := doc.ToggleServiceEnabled("seo_hosting", false, testNow); err != nil {
		t.Fatal(err)
	}

	svc := doc.Service("seo_hosting")
	if svc.Enabled {
		t.Error("service should be disabled")
	}
	if svc.Overrides[OverrideKey(1)] != "custom" {
		t.Error("disabling must keep overrides for re-enable")
	}
	if !doc.Service("marketing_machine").Enabled {
		t.Error("other services must be untouched")
	}
	if doc.EnabledServiceCount() != 1 {
		t.Errorf("enabled count = %d", doc.EnabledServiceCount())
	}
}

func TestResolveSubsectionBody(t *testing.T) {
	doc := assemble(t, "marketing_machine")
	svc := doc.Service("marketing_machine")
	sub := svc.Template.Subsections[0]

	if got := svc.ResolveSubsectionBody(sub); got != sub.BodyMarkdown {
		t.Error("without an override the template body wins")
	}

	svc.Overrides[OverrideKey(sub.Number)] = "client specific body"
	if got := svc.ResolveSubsectionBody(sub); got != "client specific body" {
		t.Errorf("override should win, got %q", got)
	}

	// Empty override falls back to the template.
	svc.Overrides[OverrideKey(sub.Number)] = ""
	if got := svc.ResolveSubsectionBody(sub); got != sub.BodyMarkdown {
		t.Error("empty override should fall back to template body")
	}
}

func TestSetInvestmentOverride(t *testing.T) {
	doc := assemble(t, "marketing_machine")
	inv := &library.Investment{Model: library.InvestmentMonthly, Amount: 4500, Currency: "USD"}

	if err := doc.SetInvestmentOverride("marketing_machine", inv, testNow); err != nil {
		t.Fatal(err)
	}
	svc := doc.Service("marketing_machine")
	if svc.ResolveInvestment().Amount != 4500 {
		t.Error("override investment should win")
	}

	inv.Amount = 9999
	if svc.InvestmentOverride.Amount != 4500 {
		t.Error("stored override must be a copy, not the caller's pointer")
	}

	if err := doc.SetInvestmentOverride("marketing_machine", nil, testNow); err != nil {
		t.Fatal(err)
	}
	if svc.InvestmentOverride != nil {
		t.Error("nil should clear the override")
	}
	if svc.ResolveInvestment() != svc.Template.Investment {
		t.Error("cleared override falls back to the template investment")
	}
}

func TestAddRemoveModule(t *testing.T) {
	doc := assemble(t, "marketing_machine")

	doc.AddModule(ModuleInput{ModuleKey: "case_study", TitleCaps: "CASE STUDY", BodyMarkdown: "Results for a similar client."}, testNow)
	doc.AddModule(ModuleInput{ModuleKey: "case_study", TitleCaps: "CASE STUDY TWO", BodyMarkdown: "Another one."}, testNow)
	doc.AddModule(ModuleInput{ModuleKey: "guarantee", TitleCaps: "OUR GUARANTEE", BodyMarkdown: "Terms apply."}, testNow)

	// Duplicates append; they are not deduplicated.
	if len(doc.Modules) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(doc.Modules))
	}
	if !doc.Modules[0].Enabled {
		t.Error("new modules start enabled")
	}

	doc.RemoveModule("case_study", testNow)
	if len(doc.Modules) != 1 || doc.Modules[0].Key != "guarantee" {
		t.Errorf("RemoveModule should clear every entry for the key, got %v", doc.Modules)
	}

	doc.RemoveModule("no_such_key", testNow)
	if len(doc.Modules) != 1 {
		t.Error("removing an unknown key is a no-op")
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := assemble(t, "marketing_machine")
	doc.Comments.Paragraphs = []string{"one", "two"}
	clone := doc.Clone()

	clone.Comments.Paragraphs[0] = "mutated"
	clone.Service("marketing_machine").Overrides[OverrideKey(1)] = "mutated"
	clone.Terms.Clauses[0].Body = "mutated"

	if doc.Comments.Paragraphs[0] == "mutated" {
		t.Error("clone shares the paragraphs slice")
	}
	if _, ok := doc.Service("marketing_machine").Overrides[OverrideKey(1)]; ok {
		t.Error("clone shares the overrides map")
	}
	if doc.Terms.Clauses[0].Body == "mutated" {
		t.Error("clone shares the terms clauses")
	}
}

func TestOverrideKey(t *testing.T) {
	if OverrideKey(3) != "subsection_3" {
		t.Errorf("OverrideKey(3) = %q", OverrideKey(3))
	}
}
