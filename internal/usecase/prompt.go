package usecase

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/oppsight/analysis-api/internal/domain/entity"
	"github.com/oppsight/analysis-api/internal/domain/service"
	"github.com/oppsight/analysis-api/internal/domain/taxonomy"
)

const systemInstruction = "You are a cybersecurity expert that analyzes business opportunities and categorizes them accurately. Always respond with valid JSON only."

const promptTemplate = `You are a cybersecurity expert analyzing business opportunities. Based on the information provided, determine the most appropriate security opportunity type.

Available Types: %s

Opportunity Information:
- Name: "%s"
- Description: "%s"
- On Hold Reason: "%s"

Please analyze this opportunity and respond with a JSON object containing:
{
  "type": "one of the available types that best matches",
  "confidence": "number between 0-100 indicating confidence level",
  "reasoning": "brief explanation of why this type was chosen"
}

Focus on identifying key security domains, technologies, and services mentioned. Consider:
- Security assessments and audits
- Cloud security implementations
- Endpoint protection and management
- SIEM, SOC, and monitoring services
- Identity and access management
- Network security and firewalls
- Data protection and encryption
- Vulnerability scanning and management
- Compliance requirements
- Incident response capabilities
- Security training and awareness
- Mainframe and legacy system security

Respond only with the JSON object, no additional text.`

// BuildPrompt converts one opportunity record into a model request. It is a
// pure function; the only failure mode is a record missing a required field.
func BuildPrompt(rec entity.OpportunityRecord) (service.Prompt, error) {
	if err := rec.Validate(); err != nil {
		return service.Prompt{}, err
	}

	onHold := sanitizeField(rec.OnHoldReason)
	if onHold == "" {
		onHold = "N/A"
	}

	user := fmt.Sprintf(promptTemplate,
		strings.Join(taxonomy.List(), ", "),
		sanitizeField(rec.OpportunityName),
		sanitizeField(rec.Description),
		onHold,
	)

	return service.Prompt{System: systemInstruction, User: user}, nil
}

// sanitizeField keeps free-text fields from breaking the quoted prompt
// layout: line breaks and tabs become spaces, other control characters are
// dropped, and double quotes are escaped.
func sanitizeField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// drop
		case r == '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
