package services_test

import (
	"context"
	"testing"

	"cuesheet/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithStage(ctx, "aggregate")
	ctx = services.WithFile(ctx, "reel1.txt")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "aggregate" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if file, ok := services.FileFromContext(ctx); !ok || file != "reel1.txt" {
		t.Fatalf("unexpected file: %v %v", file, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
