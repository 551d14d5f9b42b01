package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ItemUUID identifies a portfolio item by its slug.
func ItemUUID(slug string) uuid.UUID {
	return UUID("go-portfolio:item:" + strings.ToLower(strings.TrimSpace(slug)))
}

// AssetUUID identifies an image asset by its asset ID.
func AssetUUID(assetID string) uuid.UUID {
	return UUID("go-portfolio:asset:" + strings.TrimSpace(assetID))
}
