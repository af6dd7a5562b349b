// internal/common/validation/schema.go
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Raw documents coming out of storage are validated against these schemas
// before they are decoded into model structs. Shape problems (missing
// arrays, wrong types) fail here; semantic problems (empty sub-populations)
// are the risk package's concern.

const loanDocumentSchema = `{
	"type": "object",
	"required": ["id", "repaymentHistory", "documents", "collateral", "guarantors", "daysLate"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"borrowerId": {"type": "string"},
		"repaymentHistory": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["status"],
				"properties": {
					"status": {"type": "string", "enum": ["PAID", "LATE", "MISSED"]},
					"amount": {"type": "number", "minimum": 0}
				}
			}
		},
		"documents": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["status"],
				"properties": {
					"status": {"type": "string", "enum": ["APPROVED", "PENDING", "REJECTED"]}
				}
			}
		},
		"collateral": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["status"],
				"properties": {
					"status": {"type": "string", "enum": ["APPROVED", "PENDING", "REJECTED"]}
				}
			}
		},
		"guarantors": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["documents"],
				"properties": {
					"documents": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["status"],
							"properties": {
								"status": {"type": "string", "enum": ["APPROVED", "PENDING", "REJECTED"]}
							}
						}
					}
				}
			}
		},
		"daysLate": {"type": "integer", "minimum": 0},
		"riskRating": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH", ""]}
	}
}`

const transactionDocumentSchema = `{
	"type": "object",
	"required": ["date", "amount", "debitAccount", "creditAccount", "bankAccountId"],
	"properties": {
		"id": {"type": "string"},
		"date": {"type": "string"},
		"amount": {"type": "number", "minimum": 0},
		"debitAccount": {"type": ["string", "object"]},
		"creditAccount": {"type": ["string", "object"]},
		"bankAccountId": {"type": ["string", "object"]},
		"narration": {"type": "string"}
	}
}`

var (
	loanSchemaLoader        = gojsonschema.NewStringLoader(loanDocumentSchema)
	transactionSchemaLoader = gojsonschema.NewStringLoader(transactionDocumentSchema)
)

// ValidateLoanDocument checks a raw loan document against the loan schema.
func ValidateLoanDocument(raw []byte) error {
	return validate(loanSchemaLoader, raw, "loan")
}

// ValidateTransactionDocument checks a raw transaction document against the
// transaction schema.
func ValidateTransactionDocument(raw []byte) error {
	return validate(transactionSchemaLoader, raw, "transaction")
}

func validate(schema gojsonschema.JSONLoader, raw []byte, entity string) error {
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schema, documentLoader)
	if err != nil {
		return fmt.Errorf("%s validation error: %w", entity, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%s document validation failed: %v", entity, errs)
	}

	return nil
}
