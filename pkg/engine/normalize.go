package engine

import "strings"

// Strategy is how a marker rule rewrites the text around its marker.
type Strategy int

const (
	// TakeAfter keeps only the text after the first occurrence of the marker.
	TakeAfter Strategy = iota
	// CutBefore keeps only the text before the first occurrence of the marker.
	CutBefore
	// Remove deletes every occurrence of the marker.
	Remove
	// DropLeadingLine removes the first line when it contains the marker.
	DropLeadingLine
)

// Rule is one marker-based cleanup step.
type Rule struct {
	Marker   string
	Strategy Strategy
}

// DefaultRules strips the framing the engine CLI wraps around agent output:
// launch banners, backend shutdown notices, spinner glyphs, and model
// end-of-turn markers. The engine's framing text is not a stable contract,
// so the list is ordered data rather than code.
var DefaultRules = []Rule{
	{Marker: "Completed:", Strategy: TakeAfter},
	{Marker: "Stopping backend", Strategy: CutBefore},
	{Marker: "🔄", Strategy: CutBefore},
	{Marker: "<|eot_id|>", Strategy: Remove},
	{Marker: "Inferlet launched", Strategy: DropLeadingLine},
}

// Normalize applies DefaultRules to raw engine output.
func Normalize(raw string) string {
	return NormalizeWith(DefaultRules, raw)
}

// NormalizeWith applies rules in order. This is lossy best-effort cleanup,
// not parsing: any subset of markers may be absent, the result is trimmed
// after every step, and the function is pure and idempotent for outputs
// whose payload does not itself contain the markers.
func NormalizeWith(rules []Rule, raw string) string {
	content := strings.TrimSpace(raw)
	for _, rule := range rules {
		switch rule.Strategy {
		case TakeAfter:
			if _, after, ok := strings.Cut(content, rule.Marker); ok {
				content = after
			}
		case CutBefore:
			if before, _, ok := strings.Cut(content, rule.Marker); ok {
				content = before
			}
		case Remove:
			content = strings.ReplaceAll(content, rule.Marker, "")
		case DropLeadingLine:
			if first, rest, ok := strings.Cut(content, "\n"); ok {
				if strings.Contains(first, rule.Marker) {
					content = rest
				}
			} else if strings.Contains(content, rule.Marker) {
				content = ""
			}
		}
		content = strings.TrimSpace(content)
	}
	return content
}
