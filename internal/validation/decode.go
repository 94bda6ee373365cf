// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package validation

import (
	"bytes"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mesto/internal/apierror"
)

// Sources of validated input.
const (
	SourceBody   = "body"
	SourceParams = "params"
)

// MaxBodyBytes bounds request bodies read by DecodeBody.
const MaxBodyBytes = 1 << 20

const unknownFieldPrefix = `json: unknown field "`

// DecodeBody reads a JSON object from r into dst and validates it.
//
// Unknown keys, wrong value types, explicit nulls and malformed JSON are
// reported as ValidationFailed just like rule violations. The body must be a
// single JSON object; an empty body is treated as {}.
func DecodeBody(r io.Reader, dst interface{}) *apierror.Error {
	raw, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	if err != nil {
		return bodyError("", "body", "request body could not be read")
	}
	if len(raw) > MaxBodyBytes {
		return bodyError("", "size", "request body is too large")
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if raw[0] != '{' {
		return bodyError("", "object", "request body must be a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return bodyError("", "json", "request body must be valid JSON")
	}
	if apiErr := rejectNulls(raw); apiErr != nil {
		return apiErr
	}

	return ValidateBody(dst)
}

// ValidateBody runs the rule table of dst and reports failures with source "body".
func ValidateBody(dst interface{}) *apierror.Error {
	if verr := ValidateStruct(dst); verr != nil {
		return verr.ToAPIError(SourceBody)
	}
	return nil
}

// ValidateParams runs the rule table of a path parameter struct.
func ValidateParams(params interface{}) *apierror.Error {
	if verr := ValidateStruct(params); verr != nil {
		return verr.ToAPIError(SourceParams)
	}
	return nil
}

// rejectNulls fails on the first top-level key whose value is null. Optional
// fields decode null as absent, so it has to be caught before validation.
func rejectNulls(raw []byte) *apierror.Error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return decodeError(err)
	}
	keys := make([]string, 0, len(fields))
	for key, value := range fields {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)
	return bodyError(keys[0], "type", keys[0]+" must not be null")
}

func decodeError(err error) *apierror.Error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return bodyError("", "object", "request body must be a JSON object")
		}
		return bodyError(typeErr.Field, "type", typeErr.Field+" must be a "+typeErr.Type.String())
	}

	if msg := err.Error(); strings.HasPrefix(msg, unknownFieldPrefix) {
		field := strings.TrimSuffix(strings.TrimPrefix(msg, unknownFieldPrefix), `"`)
		return bodyError(field, "unknown", field+" is not allowed")
	}

	return bodyError("", "json", "request body must be valid JSON")
}

func bodyError(field, tag, message string) *apierror.Error {
	details := &apierror.ValidationDetails{Source: SourceBody}
	if field != "" {
		details.Keys = []string{field}
	}
	details.Fields = []apierror.FieldError{{Field: field, Tag: tag, Message: message}}
	return apierror.Validation(message, details)
}
