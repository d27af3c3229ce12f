package services_test

import (
	"errors"
	"strings"
	"testing"

	"cuesheet/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrLookup, "enrichment", "batch", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrLookup) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"enrichment", "batch", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaults(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected default detail, got %q", err.Error())
	}
}

func TestClassify(t *testing.T) {
	startupErr := services.Wrap(services.ErrStartup, "reference", "load", "missing", errors.New("enoent"))
	if services.Classify(startupErr) != services.OutcomeFatal {
		t.Fatalf("expected fatal for startup error")
	}
	if services.Recoverable(startupErr) {
		t.Fatal("startup error should not be recoverable")
	}

	emptyErr := services.Wrap(services.ErrEmptyResult, "aggregate", "tracks", "nothing found", nil)
	if !services.Recoverable(emptyErr) {
		t.Fatal("empty result should be recoverable")
	}
	preErr := services.Wrap(services.ErrPrecondition, "workflow", "run", "reference not loaded", nil)
	if !services.Recoverable(preErr) {
		t.Fatal("precondition failure should be recoverable")
	}
}
