package library

import "testing"

func TestCatalogTemplateUnknownKey(t *testing.T) {
	c := NewCatalog()
	if tpl := c.Template("no_such_service"); tpl != nil {
		t.Errorf("unknown key should return nil, got %v", tpl)
	}
}

func TestCatalogTemplateDeepCopy(t *testing.T) {
	c := NewCatalog()
	first := c.Template("marketing_machine")
	if first == nil {
		t.Fatal("marketing_machine should exist")
	}

	first.DisplayName = "MUTATED"
	first.Subsections[0].BodyMarkdown = "MUTATED"

	second := c.Template("marketing_machine")
	if second.DisplayName == "MUTATED" {
		t.Error("catalog entry mutated through a returned copy")
	}
	if second.Subsections[0].BodyMarkdown == "MUTATED" {
		t.Error("catalog subsections mutated through a returned copy")
	}
}

func TestCatalogTemplates(t *testing.T) {
	c := NewCatalog()
	templates := c.Templates()
	if len(templates) == 0 {
		t.Fatal("catalog should not be empty")
	}

	seen := make(map[string]bool, len(templates))
	for _, tpl := range templates {
		if tpl.ServiceKey == "" {
			t.Error("every template needs a service key")
		}
		if seen[tpl.ServiceKey] {
			t.Errorf("duplicate service key %q", tpl.ServiceKey)
		}
		seen[tpl.ServiceKey] = true
		if len(tpl.Subsections) == 0 {
			t.Errorf("%s has no subsections", tpl.ServiceKey)
		}
		for i, sub := range tpl.Subsections {
			if sub.Number != i+1 {
				t.Errorf("%s subsection %d numbered %d, want sequential from 1", tpl.ServiceKey, i, sub.Number)
			}
		}
		if tpl.Investment.RenderHint == "" {
			t.Errorf("%s investment has no render hint", tpl.ServiceKey)
		}
	}
}

func TestCatalogTermsDeepCopy(t *testing.T) {
	c := NewCatalog()
	terms := c.Terms()
	if len(terms.Clauses) == 0 {
		t.Fatal("terms should carry clauses")
	}
	if terms.Version != TermsVersion {
		t.Errorf("terms version = %q, want %q", terms.Version, TermsVersion)
	}

	terms.Clauses[0].Body = "MUTATED"
	if c.Terms().Clauses[0].Body == "MUTATED" {
		t.Error("terms mutated through a returned copy")
	}
}
