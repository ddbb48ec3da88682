package util_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"todoapi/internal/core/util"
)

type patchBody struct {
	Title       util.Field[string] `json:"title"`
	Description util.Field[string] `json:"description"`
	Completed   util.Field[bool]   `json:"completed"`
}

func TestField_AbsentKey(t *testing.T) {
	var body patchBody

	err := json.Unmarshal([]byte(`{}`), &body)

	assert.NoError(t, err)
	assert.False(t, body.Title.Set)
	assert.False(t, body.Title.Valid)
}

func TestField_ExplicitNull(t *testing.T) {
	var body patchBody

	err := json.Unmarshal([]byte(`{"description": null}`), &body)

	assert.NoError(t, err)
	assert.True(t, body.Description.Set)
	assert.False(t, body.Description.Valid)
	assert.Nil(t, body.Description.Ptr())
}

func TestField_Value(t *testing.T) {
	var body patchBody

	err := json.Unmarshal([]byte(`{"title": "hello", "completed": true}`), &body)

	assert.NoError(t, err)
	assert.True(t, body.Title.Set)
	assert.True(t, body.Title.Valid)
	assert.Equal(t, "hello", body.Title.Value)
	assert.True(t, body.Completed.Value)
}

func TestField_TypeMismatch(t *testing.T) {
	var body patchBody

	err := json.Unmarshal([]byte(`{"completed": "yes"}`), &body)

	assert.Error(t, err)
}

func TestField_Ptr(t *testing.T) {
	field := util.NewField("value")

	ptr := field.Ptr()

	assert.NotNil(t, ptr)
	assert.Equal(t, "value", *ptr)

	// The pointer is a copy, not an alias into the field.
	*ptr = "changed"
	assert.Equal(t, "value", field.Value)
}
