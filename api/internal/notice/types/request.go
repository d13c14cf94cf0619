package types

import (
	"errors"
	"strings"
)

// ErrEmptyText is the only error Analyze hands back to a caller.
var ErrEmptyText = errors.New("text is required")

// AudienceProfile describes the readers the notice is aimed at.
type AudienceProfile struct {
	Grade       string   `json:"grade,omitempty" yaml:"grade"`
	Roles       []string `json:"roles,omitempty" yaml:"roles"`
	Gender      string   `json:"gender,omitempty" yaml:"gender"`
	Sensitivity string   `json:"sensitivity,omitempty" yaml:"sensitivity"` // "高" | "中" | "低" | ""
	CustomNote  string   `json:"custom_note,omitempty" yaml:"custom_note"`
}

// AnalysisRequest is built once per submission and never mutated.
type AnalysisRequest struct {
	Text     string          `json:"text"`
	Scenario string          `json:"scenario,omitempty"`
	Audience AudienceProfile `json:"audience,omitempty"`
}

func (r AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

// Describe renders the profile for the prompt. A custom note wins over the
// structured fields.
func (p AudienceProfile) Describe() string {
	if note := strings.TrimSpace(p.CustomNote); note != "" {
		return note
	}
	var parts []string
	if grade := strings.TrimSpace(p.Grade); grade != "" {
		parts = append(parts, grade)
	}
	var roles []string
	for _, r := range p.Roles {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	if len(roles) > 0 {
		parts = append(parts, strings.Join(roles, "、"))
	}
	if g := strings.TrimSpace(p.Gender); g != "" {
		parts = append(parts, g)
	}
	if s := strings.TrimSpace(p.Sensitivity); s != "" {
		parts = append(parts, "敏感度"+s)
	}
	return strings.Join(parts, "；")
}
