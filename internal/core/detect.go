package core

import "strings"

// Detection weights.
const (
	keywordScore     = 3
	headerMatchScore = 1

	// MinDetectScore is the lowest score accepted as a detection.
	MinDetectScore = 2
)

// Score rates how well a set of already-normalized headers fits d.
// Each identify keyword found inside any header adds 3; each header-map key
// equal to or contained in any header adds 1.
func Score(d *TableDescriptor, normalized []string) int {
	score := 0
	for _, kw := range d.IdentifyKeywords {
		if anyContains(normalized, kw) {
			score += keywordScore
		}
	}
	for _, m := range d.HeaderMap {
		if anyContains(normalized, m.Header) {
			score += headerMatchScore
		}
	}
	return score
}

func anyContains(headers []string, needle string) bool {
	for _, h := range headers {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}

// Detect picks the descriptor whose score over headers is strictly highest.
// Ties go to the earlier registered descriptor. Scores below MinDetectScore
// report no match.
func (r *Registry) Detect(headers []string) (string, bool) {
	normalized := normalizeAll(headers)

	best, bestScore := "", 0
	for _, d := range r.All() {
		if s := Score(d, normalized); s > bestScore {
			best, bestScore = d.Key, s
		}
	}
	if bestScore < MinDetectScore {
		return "", false
	}
	return best, true
}

// DetectBySheetName returns the first descriptor whose key, destination table,
// or any identify keyword appears in the lowercased sheet name.
func (r *Registry) DetectBySheetName(name string) (string, bool) {
	lower := strings.ToLower(name)
	normalized := NormalizeHeader(name)
	if lower == "" {
		return "", false
	}
	for _, d := range r.All() {
		if strings.Contains(lower, d.Key) || strings.Contains(lower, d.DestinationTable) {
			return d.Key, true
		}
		for _, kw := range d.IdentifyKeywords {
			if strings.Contains(normalized, kw) {
				return d.Key, true
			}
		}
	}
	return "", false
}

// DetectSheet tries the sheet name first and falls back to header scoring.
func (r *Registry) DetectSheet(name string, headers []string) (string, bool) {
	if key, ok := r.DetectBySheetName(name); ok {
		return key, true
	}
	return r.Detect(headers)
}
