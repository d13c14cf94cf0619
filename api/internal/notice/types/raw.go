package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawAnalysis is the generator payload before normalization. Every field is
// optional and decoded on its own: a field or list element of the wrong
// shape is skipped instead of failing the whole object. Field names of the
// older prompt template (overall_explanation, high_risk_words, audiences,
// rewrite_suggestions) are accepted as aliases.
type RawAnalysis struct {
	RiskScore *float64
	RiskLevel string
	Summary   string
	Findings  []RawFinding
	Emotions  []RawEmotion
	Rewrites  []RawRewrite
}

type RawFinding struct {
	Title        string
	EvidenceSpan string
	Rationale    string
	RewriteHint  string
}

type RawEmotion struct {
	GroupLabel     string
	SentimentLabel string
	Intensity      *float64
	SampleComment  string
}

type RawRewrite struct {
	Name               string
	PredictedRiskScore *float64
	RewrittenText      string
	Rationale          string
}

type fields map[string]json.RawMessage

func (a *RawAnalysis) UnmarshalJSON(b []byte) error {
	var m fields
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*a = RawAnalysis{}
	a.RiskScore = m.number("risk_score", "riskScore", "score")
	a.RiskLevel = m.str("risk_level", "riskLevel", "level")
	a.Summary = m.str("summary", "overall_explanation", "explanation")

	for _, el := range m.list("findings", "high_risk_words") {
		if f, ok := decodeFinding(el); ok {
			a.Findings = append(a.Findings, f)
		}
	}
	for _, el := range m.list("emotions", "audiences") {
		if e, ok := decodeEmotion(el); ok {
			a.Emotions = append(a.Emotions, e)
		}
	}
	for _, el := range m.list("rewrites", "rewrite_suggestions") {
		if r, ok := decodeRewrite(el); ok {
			a.Rewrites = append(a.Rewrites, r)
		}
	}
	return nil
}

func decodeFinding(el json.RawMessage) (RawFinding, bool) {
	if s, ok := asString(el); ok {
		return RawFinding{Title: s}, s != ""
	}
	var m fields
	if json.Unmarshal(el, &m) != nil {
		return RawFinding{}, false
	}
	f := RawFinding{
		Title:        m.str("title", "word"),
		EvidenceSpan: m.str("evidence_span", "evidenceSpan", "evidence", "span", "word"),
		Rationale:    m.str("rationale", "reason"),
		RewriteHint:  m.str("rewrite_hint", "rewriteHint", "suggestion"),
	}
	return f, f != RawFinding{}
}

func decodeEmotion(el json.RawMessage) (RawEmotion, bool) {
	var m fields
	if json.Unmarshal(el, &m) != nil {
		return RawEmotion{}, false
	}
	e := RawEmotion{
		GroupLabel:     m.str("group_label", "groupLabel", "group", "label"),
		SentimentLabel: m.str("sentiment_label", "sentimentLabel", "sentiment", "emotion_label"),
		Intensity:      m.number("intensity"),
		SampleComment:  m.str("sample_comment", "sampleComment", "comment"),
	}
	if e.Intensity == nil {
		// emotion_score is signed (-1..1); its magnitude is the intensity.
		if v := m.number("emotion_score"); v != nil {
			abs := math.Abs(*v)
			e.Intensity = &abs
		}
	}
	if e.SampleComment == "" {
		for _, c := range m.list("comments") {
			if s, ok := asString(c); ok && s != "" {
				e.SampleComment = s
				break
			}
		}
	}
	return e, e.GroupLabel != "" || e.SentimentLabel != "" || e.SampleComment != ""
}

func decodeRewrite(el json.RawMessage) (RawRewrite, bool) {
	if s, ok := asString(el); ok {
		return RawRewrite{RewrittenText: s}, s != ""
	}
	var m fields
	if json.Unmarshal(el, &m) != nil {
		return RawRewrite{}, false
	}
	r := RawRewrite{
		Name:               m.str("name", "variant", "type"),
		PredictedRiskScore: m.number("predicted_risk_score", "predictedRiskScore", "new_risk_score", "risk_score"),
		RewrittenText:      m.str("rewritten_text", "rewrittenText", "text"),
		Rationale:          m.str("rationale", "brief_reason", "reason"),
	}
	return r, r.RewrittenText != ""
}

func (m fields) get(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && !isNull(v) {
			return v, true
		}
	}
	return nil, false
}

func (m fields) str(keys ...string) string {
	for _, k := range keys {
		if v, ok := m.get(k); ok {
			if s, ok := asString(v); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func (m fields) number(keys ...string) *float64 {
	for _, k := range keys {
		if v, ok := m.get(k); ok {
			if f, ok := asNumber(v); ok {
				return &f
			}
		}
	}
	return nil
}

// list returns the elements of the first array-valued key. A lone object is
// treated as a one-element list.
func (m fields) list(keys ...string) []json.RawMessage {
	for _, k := range keys {
		v, ok := m.get(k)
		if !ok {
			continue
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(v, &arr); err == nil {
			return arr
		}
		if t := bytes.TrimSpace(v); len(t) > 0 && t[0] == '{' {
			return []json.RawMessage{v}
		}
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	t := bytes.TrimSpace(v)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func asString(v json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s), true
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

// asNumber accepts JSON numbers and numeric strings such as "72", "72.5" or "72%".
func asNumber(v json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, false
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
