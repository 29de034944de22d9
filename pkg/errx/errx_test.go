package errx

import (
	"errors"
	"fmt"
	"testing"
)

func TestRegistryCodesArePrefixed(t *testing.T) {
	r := NewRegistry("EXTRACT")
	code := r.Register("ENGINE_FAILED", TypeExternal, 502, "engine failed")

	if code.Code != "EXTRACT_ENGINE_FAILED" {
		t.Fatalf("unexpected code %q", code.Code)
	}
	if got, ok := r.Get("ENGINE_FAILED"); !ok || got != code {
		t.Fatalf("registered code not retrievable")
	}
}

func TestHasCodeFollowsChain(t *testing.T) {
	r := NewRegistry("STORAGE")
	code := r.Register("WRITE_FAILED", TypeExternal, 502, "write failed")
	other := r.Register("OTHER", TypeInternal, 500, "other")

	inner := r.NewWithCause(code, errors.New("disk full"))
	outer := fmt.Errorf("persist: %w", Wrap(inner, "persist image", TypeExternal))

	if !HasCode(outer, code) {
		t.Fatalf("expected chain to carry %s", code.Code)
	}
	if HasCode(outer, other) {
		t.Fatalf("did not expect %s", other.Code)
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "x", TypeInternal) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
}
