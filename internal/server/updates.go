package server

import (
	"fmt"
	"math"
	"time"

	"gorm.io/datatypes"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/apperrors"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/utils"
)

// fieldSpec maps one accepted JSON field to its column and an optional value
// converter. PATCH bodies are filtered through these specs so server-managed
// fields (id, userId, timestamps) can never be written by a client.
type fieldSpec struct {
	column  string
	convert func(v interface{}) (interface{}, error)
}

func asString(v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected string value: %w", apperrors.ErrValidation)
	}
	return s, nil
}

func asBool(v interface{}) (interface{}, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("expected boolean value: %w", apperrors.ErrValidation)
	}
	return b, nil
}

// asInt bounds a JSON number to [min, max] and rejects fractions.
func asInt(min, max int) func(v interface{}) (interface{}, error) {
	return func(v interface{}) (interface{}, error) {
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("expected integer value: %w", apperrors.ErrValidation)
		}
		n := int(f)
		if n < min || n > max {
			return nil, fmt.Errorf("value %d out of range [%d, %d]: %w", n, min, max, apperrors.ErrValidation)
		}
		return n, nil
	}
}

// asOneOf restricts a string field to a closed set.
func asOneOf(values ...string) func(v interface{}) (interface{}, error) {
	return func(v interface{}) (interface{}, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string value: %w", apperrors.ErrValidation)
		}
		for _, candidate := range values {
			if s == candidate {
				return s, nil
			}
		}
		return nil, fmt.Errorf("value %q not allowed: %w", s, apperrors.ErrValidation)
	}
}

// asJSONB re-marshals an arbitrary JSON value into a jsonb column payload.
func asJSONB(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	return datatypes.JSON(utils.MustMarshalJSON(v)), nil
}

// asTime parses an RFC 3339 timestamp. nil clears the column.
func asTime(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected RFC 3339 timestamp: %w", apperrors.ErrValidation)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", s, apperrors.ErrValidation)
	}
	return t, nil
}

var leadFields = map[string]fieldSpec{
	"name":        {column: "name", convert: asString},
	"company":     {column: "company", convert: asString},
	"role":        {column: "role", convert: asString},
	"email":       {column: "email", convert: asString},
	"phone":       {column: "phone", convert: asString},
	"linkedin":    {column: "linkedin", convert: asString},
	"industry":    {column: "industry", convert: asString},
	"companySize": {column: "company_size", convert: asString},
	"website":     {column: "website", convert: asString},
	"notes":       {column: "notes", convert: asString},
	"status":      {column: "status", convert: asString},
	"score":       {column: "score", convert: asInt(0, 100)},
	"sdrAnalysis": {column: "sdr_analysis", convert: asJSONB},
	"lastAction":  {column: "last_action", convert: asString},
}

var taskFields = map[string]fieldSpec{
	"title":       {column: "title", convert: asString},
	"description": {column: "description", convert: asString},
	"dueDate":     {column: "due_date", convert: asTime},
	"completed":   {column: "completed", convert: asBool},
}

var dealFields = map[string]fieldSpec{
	"title":             {column: "title", convert: asString},
	"description":       {column: "description", convert: asString},
	"value":             {column: "value", convert: asInt(0, math.MaxInt32)},
	"status":            {column: "status", convert: asString},
	"expectedCloseDate": {column: "expected_close_date", convert: asTime},
}

var campaignFields = map[string]fieldSpec{
	"title":  {column: "title", convert: asString},
	"type":   {column: "type", convert: asString},
	"status": {column: "status", convert: asOneOf(model.CampaignStatusDrafting, model.CampaignStatusActive, model.CampaignStatusCompleted)},
	"stats":  {column: "stats", convert: asString},
	"tags":   {column: "tags", convert: asJSONB},
}

var knowledgeFields = map[string]fieldSpec{
	"title":   {column: "title", convert: asString},
	"content": {column: "content", convert: asString},
	"category": {column: "category", convert: asOneOf(
		model.KnowledgeCategoryQualification,
		model.KnowledgeCategoryOutreach,
		model.KnowledgeCategoryObjection,
		model.KnowledgeCategoryIndustry,
		model.KnowledgeCategoryProduct,
	)},
	"tags":     {column: "tags", convert: asJSONB},
	"isActive": {column: "is_active", convert: asBool},
}

// buildUpdates filters a PATCH body down to accepted fields and converts
// values to their column representations. Unknown fields are ignored; an
// empty result is a validation error.
func buildUpdates(body map[string]interface{}, fields map[string]fieldSpec) (map[string]interface{}, error) {
	updates := make(map[string]interface{}, len(body))
	for key, raw := range body {
		spec, ok := fields[key]
		if !ok {
			continue
		}
		val, err := spec.convert(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		updates[spec.column] = val
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no updatable fields in request body: %w", apperrors.ErrBadRequest)
	}
	return updates, nil
}
