package gateway

import (
	"bytes"
	_ "embed"
	"strings"
)

const publicURLPlaceholder = "{{PUBLIC_URL}}"

//go:embed assets/ai-plugin.json
var pluginManifest []byte

//go:embed assets/openapi.json
var openAPIDocument []byte

// renderAsset substitutes the public base URL into an embedded document.
func renderAsset(doc []byte, publicURL string) []byte {
	return bytes.ReplaceAll(doc, []byte(publicURLPlaceholder), []byte(strings.TrimRight(publicURL, "/")))
}

var legalTexts = map[string]string{
	"/legal":   "AI Commerce PoC Legal",
	"/terms":   "AI Commerce PoC Terms",
	"/privacy": "AI Commerce PoC Privacy",
}
