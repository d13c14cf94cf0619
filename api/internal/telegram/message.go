package telegram

import (
	"strings"

	"notice-guard/api/internal/notice/types"
)

var profilePrefixes = []string{"画像：", "画像:"}

// ParseMessage reads an optional "#场景" first line and an optional "画像："
// line, and treats the rest of the message as the notice text.
func ParseMessage(msg string) types.AnalysisRequest {
	var req types.AnalysisRequest
	lines := strings.Split(strings.ReplaceAll(msg, "\r\n", "\n"), "\n")

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i < len(lines) {
		if first := strings.TrimSpace(lines[i]); strings.HasPrefix(first, "#") {
			req.Scenario = strings.TrimSpace(strings.TrimPrefix(first, "#"))
			i++
		}
	}
	if i < len(lines) {
		line := strings.TrimSpace(lines[i])
		for _, p := range profilePrefixes {
			if strings.HasPrefix(line, p) {
				req.Audience.CustomNote = strings.TrimSpace(strings.TrimPrefix(line, p))
				i++
				break
			}
		}
	}
	if i < len(lines) {
		req.Text = strings.TrimSpace(strings.Join(lines[i:], "\n"))
	}
	return req
}
