package source

import (
	"testing"

	"newsdesk/internal/domain"
)

func TestDefaultCatalogueDescriptors(t *testing.T) {
	reg := NewRegistry()
	all := reg.All()
	if len(all) == 0 {
		t.Fatal("expected a non-empty catalogue")
	}
	seen := make(map[string]bool)
	for _, s := range all {
		if s.ID == "" || s.Name == "" || s.Endpoint == "" {
			t.Fatalf("incomplete descriptor: %+v", s)
		}
		if seen[s.ID] {
			t.Fatalf("duplicate source id %s", s.ID)
		}
		seen[s.ID] = true
		if s.Credibility < 0 || s.Credibility > 20 {
			t.Fatalf("source %s credibility out of range: %d", s.ID, s.Credibility)
		}
		if s.Parser == nil {
			t.Fatalf("source %s has no parser", s.ID)
		}
		if s.Transport != domain.TransportJSONAPI && s.Transport != domain.TransportFeed {
			t.Fatalf("source %s has unknown transport %s", s.ID, s.Transport)
		}
		if len(s.Categories) == 0 {
			t.Fatalf("source %s has no categories", s.ID)
		}
	}
}

func TestByID(t *testing.T) {
	reg := NewRegistry()
	s, ok := reg.ByID("cryptocompare-news")
	if !ok {
		t.Fatal("expected cryptocompare-news in catalogue")
	}
	if s.Credibility != 16 || !s.NeedsKey {
		t.Fatalf("unexpected descriptor: %+v", s)
	}
	if _, ok := reg.ByID("nope"); ok {
		t.Fatal("expected lookup miss")
	}
}

func TestByCategoryFiltersAndSorts(t *testing.T) {
	reg := NewRegistry()
	gold := reg.ByCategory(domain.CategoryGold)
	if len(gold) == 0 {
		t.Fatal("expected gold sources")
	}
	for i, s := range gold {
		if !s.HasCategory(domain.CategoryGold) {
			t.Fatalf("non-gold source %s in gold resolution", s.ID)
		}
		if i > 0 && gold[i-1].Priority > s.Priority {
			t.Fatalf("sources not priority-sorted: %s before %s", gold[i-1].ID, s.ID)
		}
	}

	crypto := reg.ByCategory(domain.CategoryCrypto)
	for _, s := range crypto {
		if s.ID == "kitco" {
			t.Fatal("gold-only source leaked into crypto resolution")
		}
	}
}

func TestByCategoryAllIsUnionOfEnabled(t *testing.T) {
	reg := NewRegistry()
	if got, want := len(reg.ByCategory(domain.CategoryAll)), len(reg.Enabled()); got != want {
		t.Fatalf("expected %d sources for 'all', got %d", want, got)
	}
}

func TestSetEnabled(t *testing.T) {
	reg := NewRegistry()
	if !reg.SetEnabled("kitco", false) {
		t.Fatal("expected toggle to succeed")
	}
	if s, _ := reg.ByID("kitco"); s.Enabled {
		t.Fatal("expected kitco disabled")
	}
	for _, s := range reg.ByCategory(domain.CategoryGold) {
		if s.ID == "kitco" {
			t.Fatal("disabled source still resolved")
		}
	}
	if reg.SetEnabled("nope", true) {
		t.Fatal("expected toggle miss for unknown id")
	}
}

func TestRegistryReturnsCopies(t *testing.T) {
	reg := NewRegistry()
	all := reg.All()
	all[0].Credibility = 999
	fresh, _ := reg.ByID(all[0].ID)
	if fresh.Credibility == 999 {
		t.Fatal("registry leaked mutable state")
	}
}
