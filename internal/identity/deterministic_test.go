package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestItemUUIDIsStable(t *testing.T) {
	first := ItemUUID("Shopfront-Banner")
	if first == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if again := ItemUUID("  shopfront-banner "); again != first {
		t.Fatalf("expected case and whitespace to be ignored, got %s vs %s", again, first)
	}
	if other := ItemUUID("team-shirts"); other == first {
		t.Fatal("expected different slugs to yield different ids")
	}
}

func TestUUIDBlankKey(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid, got %s", got)
	}
}

func TestItemAndAssetNamespacesDiffer(t *testing.T) {
	if ItemUUID("banner") == AssetUUID("banner") {
		t.Fatal("expected item and asset ids to live in separate namespaces")
	}
}
