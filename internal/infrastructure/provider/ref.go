package provider

import (
	"crypto/sha256"
	"encoding/hex"
)

// urlRef synthesizes an external reference for vendors that expose no article
// identifier. URLs are hashed rather than stored raw because vendors rewrite
// tracking parameters between runs.
func urlRef(articleURL string) string {
	sum := sha256.Sum256([]byte(articleURL))
	return "url:" + hex.EncodeToString(sum[:12])
}
