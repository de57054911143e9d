package utils

import (
	"context"
	"testing"
)

func TestOwnerIDContext(t *testing.T) {
	ctx := WithOwnerID(context.Background(), "u1")

	ownerID, ok := GetOwnerIDFromContext(ctx)
	if !ok || ownerID != "u1" {
		t.Fatalf("expected u1, got %q (ok=%v)", ownerID, ok)
	}

	if _, ok := GetOwnerIDFromContext(context.Background()); ok {
		t.Error("expected ok=false for empty context")
	}

	if _, ok := GetOwnerIDFromContext(WithOwnerID(context.Background(), "")); ok {
		t.Error("expected ok=false for empty owner id")
	}

	wrongType := context.WithValue(context.Background(), OwnerIDCtxKey, 42)
	if _, ok := GetOwnerIDFromContext(wrongType); ok {
		t.Error("expected ok=false for non-string value")
	}

	if OwnerIDCtxKey.String() != "ownerID" {
		t.Errorf("unexpected key string %q", OwnerIDCtxKey.String())
	}
}
