package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildUpdates(t *testing.T) {
	updates, err := buildUpdates(map[string]interface{}{
		"name":        "Ada Lovelace",
		"companySize": "50-200",
		"score":       float64(88),
		"unknown":     "ignored",
		"id":          "never-writable",
	}, leadFields)

	assert.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"name":         "Ada Lovelace",
		"company_size": "50-200",
		"score":        88,
	}, updates)
}

func TestBuildUpdates_RejectsBadValues(t *testing.T) {
	testCases := []struct {
		name string
		body map[string]interface{}
	}{
		{name: "score fraction", body: map[string]interface{}{"score": 42.5}},
		{name: "score out of range", body: map[string]interface{}{"score": float64(101)}},
		{name: "status wrong type", body: map[string]interface{}{"status": float64(1)}},
		{name: "completed wrong type", body: map[string]interface{}{"completed": "yes"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fields := leadFields
			if tc.name == "completed wrong type" {
				fields = taskFields
			}
			updates, err := buildUpdates(tc.body, fields)
			assert.Nil(t, updates)
			assert.Error(t, err)
		})
	}
}

func TestBuildUpdates_EmptyResult(t *testing.T) {
	updates, err := buildUpdates(map[string]interface{}{"userId": "x"}, leadFields)
	assert.Nil(t, updates)
	assert.Error(t, err)
}

func TestBuildUpdates_TimeParsing(t *testing.T) {
	updates, err := buildUpdates(map[string]interface{}{
		"dueDate": "2026-09-01T09:00:00Z",
	}, taskFields)
	assert.NoError(t, err)

	due, ok := updates["due_date"].(time.Time)
	assert.True(t, ok)
	assert.Equal(t, 2026, due.Year())

	_, err = buildUpdates(map[string]interface{}{"dueDate": "tomorrow"}, taskFields)
	assert.Error(t, err)
}
