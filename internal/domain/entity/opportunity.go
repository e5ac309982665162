// Package entity defines the request-scoped domain objects of the analysis
// pipeline. Nothing here persists beyond a single analyze call.
package entity

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord indicates an opportunity record is missing a required field.
var ErrInvalidRecord = errors.New("invalid opportunity record")

// OpportunityRecord is one sales opportunity submitted for classification.
// Field names mirror the upstream Salesforce export.
type OpportunityRecord struct {
	ID              string `json:"id" binding:"required"`
	OpportunityName string `json:"opportunityName" binding:"required"`
	Description     string `json:"description" binding:"required"`
	OnHoldReason    string `json:"onHoldReason,omitempty"`
}

// Validate checks the required fields and reports the first missing one.
func (r OpportunityRecord) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("%w: missing field %q", ErrInvalidRecord, "id")
	case r.OpportunityName == "":
		return fmt.Errorf("%w: missing field %q", ErrInvalidRecord, "opportunityName")
	case r.Description == "":
		return fmt.Errorf("%w: missing field %q", ErrInvalidRecord, "description")
	}
	return nil
}

// ClassificationResult is the structured outcome for one record.
type ClassificationResult struct {
	Type       string `json:"type"`
	Confidence int    `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}
