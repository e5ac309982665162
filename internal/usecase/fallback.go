package usecase

import (
	"strings"

	"github.com/oppsight/analysis-api/internal/domain/entity"
)

// fallbackRule maps keyword hits in the record text to a taxonomy type.
type fallbackRule struct {
	opportunityType string
	confidence      int
	reasoning       string
	keywords        []string
}

// fallbackRules are checked in order; the first rule with any keyword hit
// wins.
var fallbackRules = []fallbackRule{
	{"Security Assessment", 70, "Contains assessment/audit keywords", []string{"assessment", "audit", "evaluation"}},
	{"Cloud Security", 75, "Contains cloud platform keywords", []string{"cloud", "aws", "azure", "gcp"}},
	{"Endpoint Security", 75, "Contains endpoint security keywords", []string{"endpoint", "antivirus", "malware"}},
	{"SIEM/SOC", 80, "Contains SIEM/SOC keywords", []string{"siem", "soc", "monitoring"}},
	{"Identity Management", 75, "Contains identity management keywords", []string{"identity", "access", "mfa", "authentication"}},
	{"Network Security", 75, "Contains network security keywords", []string{"firewall", "network", "perimeter"}},
	{"Data Protection", 75, "Contains data protection keywords", []string{"data", "encryption", "backup", "protection"}},
	{"Vulnerability Management", 75, "Contains vulnerability management keywords", []string{"vulnerability", "scanning", "penetration"}},
	{"Compliance & Audit", 75, "Contains compliance keywords", []string{"compliance", "regulatory", "gdpr", "hipaa"}},
	{"Incident Response", 75, "Contains incident response keywords", []string{"incident", "response", "forensics"}},
	{"Security Training", 75, "Contains security training keywords", []string{"training", "awareness", "phishing"}},
	{"Mainframe Security", 80, "Contains mainframe keywords", []string{"mainframe", "legacy", "z/os"}},
}

// keywordClassify is the rule-based fallback used when the model could not
// produce a usable classification for a record.
func keywordClassify(rec entity.OpportunityRecord) entity.ClassificationResult {
	searchText := strings.ToLower(rec.OpportunityName + " " + rec.Description + " " + rec.OnHoldReason)

	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(searchText, kw) {
				return entity.ClassificationResult{
					Type:       rule.opportunityType,
					Confidence: rule.confidence,
					Reasoning:  rule.reasoning,
				}
			}
		}
	}

	return entity.ClassificationResult{
		Type:       "Security Assessment",
		Confidence: 40,
		Reasoning:  "Default fallback categorization",
	}
}
