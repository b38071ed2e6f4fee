// Package scoring converts raw quiz submissions into graded, auditable
// results. It is pure: no persistence, no HTTP, safe for concurrent use.
package scoring

import (
	"encoding/json"
	"math"
)

// NormalSubmitReason is the sentinel the client sends (or omits) for an
// ordinary, user-initiated submit. Anything else marks the attempt
// auto-submitted (timeout, tab-switch limit, ...).
const NormalSubmitReason = "Quiz submitted"

// RawSubmission carries the untrusted client payload. Numeric fields stay
// as raw JSON so that garbage shapes coerce instead of failing the bind.
type RawSubmission struct {
	Answers          json.RawMessage `json:"answers"`
	HintsUsed        json.RawMessage `json:"hintsUsed"`
	TabSwitchCount   json.RawMessage `json:"tabSwitchCount"`
	TimeTaken        json.RawMessage `json:"timeTaken"`
	AutoSubmitReason string          `json:"autoSubmitReason"`
}

// Submission is the sanitized form of a RawSubmission.
type Submission struct {
	// Answers keeps the raw length; it is NOT padded to the question
	// count. Out-of-range positions count as unanswered.
	Answers          []*int
	HintsUsed        int
	TabSwitchCount   int
	TimeTaken        *float64 // nil = unknown, distinct from 0
	AutoSubmitted    bool
	AutoSubmitReason string
}

// Normalize is total over arbitrary input shapes: a malicious or buggy
// client degrades to zero credit, never to an error.
func Normalize(raw RawSubmission) Submission {
	sub := Submission{
		Answers:        normalizeAnswers(raw.Answers),
		HintsUsed:      coerceCount(raw.HintsUsed),
		TabSwitchCount: coerceCount(raw.TabSwitchCount),
		TimeTaken:      coerceSeconds(raw.TimeTaken),
	}

	if raw.AutoSubmitReason == "" || raw.AutoSubmitReason == NormalSubmitReason {
		sub.AutoSubmitted = false
		sub.AutoSubmitReason = NormalSubmitReason
	} else {
		sub.AutoSubmitted = true
		sub.AutoSubmitReason = raw.AutoSubmitReason
	}

	return sub
}

// Truncated returns the answers capped to n entries for storage. Shorter
// submissions are stored as-is, never padded.
func (s Submission) Truncated(n int) []*int {
	if n < 0 {
		n = 0
	}
	if len(s.Answers) <= n {
		out := make([]*int, len(s.Answers))
		copy(out, s.Answers)
		return out
	}
	out := make([]*int, n)
	copy(out, s.Answers[:n])
	return out
}

// normalizeAnswers accepts anything: a non-array payload becomes an empty
// sequence, non-integral entries become skips.
func normalizeAnswers(raw json.RawMessage) []*int {
	if len(raw) == 0 {
		return []*int{}
	}
	var entries []interface{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []*int{}
	}

	answers := make([]*int, len(entries))
	for i, entry := range entries {
		answers[i] = coerceIndex(entry)
	}
	return answers
}

func coerceIndex(v interface{}) *int {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	// Out-of-range floats overflow the int conversion; no quiz has an
	// option index anywhere near these bounds.
	if f < math.MinInt32 || f > math.MaxInt32 {
		return nil
	}
	n := int(f)
	return &n
}

// coerceCount yields a non-negative integer capped so that downstream
// arithmetic (hint deductions in particular) cannot overflow; anything
// invalid is 0.
func coerceCount(raw json.RawMessage) int {
	f, ok := parseNumber(raw)
	if !ok || f < 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// coerceSeconds yields a non-negative duration in seconds, or nil for
// "unknown" when the value is missing or invalid.
func coerceSeconds(raw json.RawMessage) *float64 {
	f, ok := parseNumber(raw)
	if !ok || f < 0 {
		return nil
	}
	return &f
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f *float64
	if err := json.Unmarshal(raw, &f); err != nil || f == nil {
		return 0, false
	}
	if math.IsNaN(*f) || math.IsInf(*f, 0) {
		return 0, false
	}
	return *f, true
}
