package agents

import (
	"regexp"
	"strconv"
)

// Score extraction is best-effort enrichment over free text. The model is
// asked for a "**Lead Score**" section but formatting drifts, so a looser
// "Score: N" marker is accepted as a second chance.
var (
	leadScorePattern = regexp.MustCompile(`(?i)\*\*Lead Score\*\*:?\s*(\d+)`)
	scorePattern     = regexp.MustCompile(`(?i)Score:?\s*(\d+)`)
)

// extractScore pulls a suggested lead score out of analysis text. Returns
// nil when no marker is present or the number does not parse.
func extractScore(content string) *int {
	match := leadScorePattern.FindStringSubmatch(content)
	if match == nil {
		match = scorePattern.FindStringSubmatch(content)
	}
	if match == nil {
		return nil
	}
	score, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}
	return &score
}
