package debate

import "testing"

func testPool() *EvidencePool {
	return &EvidencePool{
		Perspective: School,
		Items: []EvidenceItem{
			{ID: "E1", URL: "https://example.org/a", Title: "A", Score: 0.9},
			{ID: "E2", URL: "https://example.org/b", Title: "B", Score: 0.5},
		},
	}
}

func TestValidateAcceptsCitedClaim(t *testing.T) {
	res := Validate("Later starts improve attendance [E1]", []string{"E1"}, testPool())
	if !res.OK {
		t.Fatalf("expected OK, got reason %s (%s)", res.Reason, res.Detail)
	}
}

func TestValidateRejectsEmptyClaim(t *testing.T) {
	res := Validate("   \n\t", []string{"E1"}, testPool())
	if res.OK {
		t.Fatal("expected rejection")
	}
	if res.Reason != EmptyClaim {
		t.Errorf("expected EmptyClaim, got %s", res.Reason)
	}
}

func TestValidateRejectsMissingCitation(t *testing.T) {
	res := Validate("A claim with no evidence", nil, testPool())
	if res.OK {
		t.Fatal("expected rejection")
	}
	if res.Reason != MissingCitation {
		t.Errorf("expected MissingCitation, got %s", res.Reason)
	}
}

func TestValidateRejectsUnknownReference(t *testing.T) {
	res := Validate("A claim [E9]", []string{"E1", "E9"}, testPool())
	if res.OK {
		t.Fatal("expected rejection")
	}
	if res.Reason != UnknownEvidenceReference {
		t.Errorf("expected UnknownEvidenceReference, got %s", res.Reason)
	}
}

func TestValidateRejectsAgainstEmptyPool(t *testing.T) {
	empty := &EvidencePool{Perspective: Student}
	res := Validate("A claim [E1]", []string{"E1"}, empty)
	if res.OK {
		t.Fatal("expected rejection against empty pool")
	}
	if res.Reason != UnknownEvidenceReference {
		t.Errorf("expected UnknownEvidenceReference, got %s", res.Reason)
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	pool := testPool()
	claim := "Accepted argument [E2]"
	citations := []string{"E2"}

	first := Validate(claim, citations, pool)
	if !first.OK {
		t.Fatalf("first validation failed: %s", first.Reason)
	}
	for i := 0; i < 5; i++ {
		if res := Validate(claim, citations, pool); !res.OK {
			t.Fatalf("re-validation %d failed: %s", i, res.Reason)
		}
	}
}
