package recognizer

import "testing"

func TestRouterRoutesByName(t *testing.T) {
	r := NewRouter(map[string]*Stub{
		"a": NewStub(),
		"b": NewStub(),
	}, "a")

	got, err := r.Route("b")
	if err != nil {
		t.Fatalf("Route(b): %v", err)
	}
	if got != r.backends["b"] {
		t.Errorf("expected backend b, got a different instance")
	}
}

func TestRouterFallsBackToDefault(t *testing.T) {
	def := NewStub()
	r := NewRouter(map[string]*Stub{"a": def}, "a")

	got, err := r.Route("missing")
	if err != nil {
		t.Fatalf("Route(missing): %v", err)
	}
	if got != def {
		t.Errorf("expected fallback backend, got a different instance")
	}
}

func TestRouterErrorsWhenNeitherExists(t *testing.T) {
	r := NewRouter(map[string]*Stub{"a": NewStub()}, "missing-fallback")

	if _, err := r.Route("missing"); err == nil {
		t.Errorf("expected error when neither requested nor fallback backend exists")
	}
}

func TestRouterHas(t *testing.T) {
	r := NewRouter(map[string]*Stub{"a": NewStub()}, "a")
	if !r.Has("a") {
		t.Errorf("expected Has(a) to be true")
	}
	if r.Has("b") {
		t.Errorf("expected Has(b) to be false")
	}
}
