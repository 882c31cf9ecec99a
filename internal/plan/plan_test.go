package plan_test

import (
	"testing"

	"podforge/internal/plan"
)

func TestFeatureSetsAreStrictlyIncreasing(t *testing.T) {
	tiers := plan.AllTiers()
	for i := 1; i < len(tiers); i++ {
		lower := plan.Features(tiers[i-1])
		higher := plan.Features(tiers[i])
		if len(higher) <= len(lower) {
			t.Fatalf("%s has %d features, %s has %d; expected strict growth",
				tiers[i], len(higher), tiers[i-1], len(lower))
		}
		for _, feature := range lower {
			if !plan.Entitled(tiers[i], feature) {
				t.Fatalf("%s missing %s entitled at %s", tiers[i], feature, tiers[i-1])
			}
		}
	}
}

func TestParseDefaultsToFree(t *testing.T) {
	cases := map[string]plan.Tier{
		"free":    plan.TierFree,
		"Pro":     plan.TierPro,
		" ULTRA ": plan.TierUltra,
		"":        plan.TierFree,
		"bogus":   plan.TierFree,
	}
	for input, want := range cases {
		if got := plan.Parse(input); got != want {
			t.Fatalf("Parse(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestLimits(t *testing.T) {
	free := plan.LimitsFor(plan.TierFree)
	if free.MaxProjects != 3 || free.MaxFileSize != 10*1024*1024 || free.MaxDuration != 600 {
		t.Fatalf("unexpected free limits: %+v", free)
	}

	ultra := plan.LimitsFor(plan.TierUltra)
	if ultra.MaxProjects != plan.Unlimited || ultra.MaxDuration != plan.Unlimited {
		t.Fatalf("expected unlimited ultra caps: %+v", ultra)
	}

	if !plan.CountsDeletedProjects(plan.TierFree) {
		t.Fatal("free tier counts deleted projects")
	}
	if plan.CountsDeletedProjects(plan.TierPro) {
		t.Fatal("pro tier counts active projects only")
	}
}
