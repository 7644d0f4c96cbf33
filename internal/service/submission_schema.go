package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

// compileSubmissionSchema builds a JSON Schema from a round's dynamic form
// definition. Every declared field is a string-valued property; required
// fields must be present and non-empty. A round without fields yields nil and
// skips validation.
func compileSubmissionSchema(fields []models.SubmissionField) (*jsonschema.Schema, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	properties := make(map[string]interface{}, len(fields))
	required := make([]string, 0, len(fields))
	for _, field := range fields {
		properties[field.FieldKey] = map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		}
		if field.Required {
			required = append(required, field.FieldKey)
		}
	}

	document := map[string]interface{}{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		document["required"] = required
	}

	raw, err := json.Marshal(document)
	if err != nil {
		return nil, err
	}

	schema, err := jsonschema.CompileString("round_submission_fields.json", string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to compile submission schema: %w", err)
	}

	return schema, nil
}

// validateSubmissionData checks a submission payload against the round's form
// schema and returns a flat description of the violations.
func validateSubmissionData(fields []models.SubmissionField, data map[string]interface{}) error {
	schema, err := compileSubmissionSchema(fields)
	if err != nil {
		return err
	}
	if schema == nil {
		return nil
	}

	if data == nil {
		data = map[string]interface{}{}
	}
	if err := schema.Validate(map[string]interface{}(data)); err != nil {
		var validationErr *jsonschema.ValidationError
		if ok := asValidationError(err, &validationErr); ok {
			return fmt.Errorf("%w: %s", ErrSubmissionDataInvalid, flattenSchemaError(validationErr))
		}
		return err
	}

	return nil
}

func asValidationError(err error, target **jsonschema.ValidationError) bool {
	if validationErr, ok := err.(*jsonschema.ValidationError); ok {
		*target = validationErr
		return true
	}
	return false
}

func flattenSchemaError(err *jsonschema.ValidationError) string {
	leaves := err.BasicOutput().Errors
	messages := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		if leaf.Error == "" {
			continue
		}
		messages = append(messages, leaf.Error)
	}
	if len(messages) == 0 {
		return err.Message
	}
	return strings.Join(messages, "; ")
}
