package id

import "testing"

func TestUUIDGeneratorProducesDistinctValidIDs(t *testing.T) {
	t.Parallel()

	gen := NewUUIDGenerator()
	seen := make(map[string]struct{}, 32)
	for i := 0; i < 32; i++ {
		v, err := gen.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if !Valid(v) {
			t.Fatalf("expected valid uuid, got %q", v)
		}
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate id %q", v)
		}
		seen[v] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	if Valid("not-a-uuid") {
		t.Fatalf("expected invalid id to be rejected")
	}
	if !Valid("6f1c2b9e-4a1d-4f3a-9a55-0d7c6b1e2f30") {
		t.Fatalf("expected canonical uuid to be accepted")
	}
}
