package models

import (
	"testing"

	"github.com/roundtable-dev/roundtable/internal/debate"
	"github.com/roundtable-dev/roundtable/internal/openrouter"
)

func TestNewRegistryKeepsOnlyFreeModels(t *testing.T) {
	registry := NewRegistry([]openrouter.Model{
		{ID: "free-1", Pricing: &openrouter.Pricing{Prompt: "0", Completion: "0"}},
		{ID: "paid", Pricing: &openrouter.Pricing{Prompt: "0.01", Completion: "0"}},
		{ID: "no-pricing"},
		{ID: "free-2", Pricing: &openrouter.Pricing{Prompt: "0", Completion: "0"}},
	})

	free := registry.FreeModels()
	if len(free) != 2 {
		t.Fatalf("expected 2 free models, got %d", len(free))
	}
	if free[0].ID != "free-1" || free[1].ID != "free-2" {
		t.Errorf("unexpected free models: %+v", free)
	}
}

func TestAssignCyclesShortList(t *testing.T) {
	registry := NewRegistry([]openrouter.Model{
		{ID: "m1", Pricing: &openrouter.Pricing{Prompt: "0", Completion: "0"}},
		{ID: "m2", Pricing: &openrouter.Pricing{Prompt: "0", Completion: "0"}},
	})

	assigned, evaluator := registry.Assign(debate.DefaultPerspectives())
	if assigned[debate.School] != "m1" || assigned[debate.Student] != "m2" || assigned[debate.Parent] != "m1" {
		t.Errorf("unexpected assignment: %v", assigned)
	}
	if evaluator != "m2" {
		t.Errorf("unexpected evaluator model: %q", evaluator)
	}
}

func TestAssignEmptyRegistry(t *testing.T) {
	registry := NewRegistry(nil)
	assigned, evaluator := registry.Assign(debate.DefaultPerspectives())
	if assigned != nil || evaluator != "" {
		t.Errorf("expected zero values, got %v / %q", assigned, evaluator)
	}
}

func TestDefaultFreeModelsAreFree(t *testing.T) {
	registry := NewRegistry(DefaultFreeModels())
	if got, want := len(registry.FreeModels()), len(DefaultFreeModels()); got != want {
		t.Errorf("expected all %d defaults to survive the filter, got %d", want, got)
	}
}
