package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/oppsight/analysis-api/internal/domain/entity"
	"github.com/oppsight/analysis-api/internal/domain/taxonomy"
)

// maxReasoningLen caps the reasoning text carried into an Unknown fallback
// result.
const maxReasoningLen = 200

// ParseError reports which part of the model output was unusable.
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed classification output: field %q: %s", e.Field, e.Reason)
}

// rawClassification uses pointers so absent fields are distinguishable from
// zero values.
type rawClassification struct {
	Type       *string          `json:"type"`
	Confidence *json.RawMessage `json:"confidence"`
	Reasoning  *string          `json:"reasoning"`
}

// ParseClassification extracts a ClassificationResult from raw model output.
// It tolerates code fences and surrounding prose, clamps out-of-range
// confidence values, and maps labels outside the taxonomy to the Unknown
// fallback. Missing fields surface as a ParseError naming the field.
func ParseClassification(raw string) (entity.ClassificationResult, error) {
	payload, ok := extractJSONObject(stripCodeFences(raw))
	if !ok {
		return entity.ClassificationResult{}, &ParseError{Field: "payload", Reason: "no JSON object found"}
	}

	var decoded rawClassification
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return entity.ClassificationResult{}, &ParseError{Field: "payload", Reason: err.Error()}
	}

	if decoded.Type == nil {
		return entity.ClassificationResult{}, &ParseError{Field: "type", Reason: "missing"}
	}
	if decoded.Confidence == nil {
		return entity.ClassificationResult{}, &ParseError{Field: "confidence", Reason: "missing"}
	}
	if decoded.Reasoning == nil {
		return entity.ClassificationResult{}, &ParseError{Field: "reasoning", Reason: "missing"}
	}

	confidence, err := coerceConfidence(*decoded.Confidence)
	if err != nil {
		return entity.ClassificationResult{}, &ParseError{Field: "confidence", Reason: err.Error()}
	}

	if !taxonomy.Contains(*decoded.Type) {
		// The model invented a label; keep the record but flag it.
		return entity.ClassificationResult{
			Type:       taxonomy.Unknown,
			Confidence: 0,
			Reasoning:  truncate(strings.TrimSpace(raw), maxReasoningLen),
		}, nil
	}

	return entity.ClassificationResult{
		Type:       *decoded.Type,
		Confidence: clampConfidence(confidence),
		Reasoning:  *decoded.Reasoning,
	}, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractJSONObject returns the first balanced top-level JSON object in s.
// Brace depth is tracked outside of string literals so prose around the
// payload, or braces inside reasoning text, do not break extraction.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// coerceConfidence accepts both bare numbers and quoted numbers; the prompt
// describes confidence inside quotes, and models sometimes take that
// literally.
func coerceConfidence(raw json.RawMessage) (int, error) {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", string(raw))
	}
	return int(math.Round(f)), nil
}

func clampConfidence(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Cut on a rune boundary.
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
