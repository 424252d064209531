package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"checklens/internal/domain"
)

func TestJSONObject_PlainObject(t *testing.T) {
	fields, err := JSONObject(`{"payee": "Jane Doe", "amount": "$125.00"}`)

	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", fields["payee"])
	assert.Equal(t, "$125.00", fields["amount"])
}

func TestJSONObject_EmbeddedInProse(t *testing.T) {
	text := "Here is the extracted data:\n```json\n{\"check_number\": \"1042\", \"amount\": \"50.00\"}\n```\nLet me know if you need anything else."

	fields, err := JSONObject(text)

	assert.NoError(t, err)
	assert.Equal(t, "1042", fields["check_number"])
}

func TestJSONObject_NestedBraces(t *testing.T) {
	fields, err := JSONObject(`prefix {"outer": {"inner": "value"}} suffix`)

	assert.NoError(t, err)
	inner, ok := fields["outer"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "value", inner["inner"])
}

func TestJSONObject_NoBraces(t *testing.T) {
	_, err := JSONObject("I could not read the image, sorry.")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrParseFailure))
}

func TestJSONObject_TwoObjectsSpanIsInvalid(t *testing.T) {
	// First '{' to last '}' spans both objects, which is not valid JSON.
	_, err := JSONObject(`{"a": 1} and also {"b": 2}`)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrParseFailure))
}

func TestJSONObject_EmptyInput(t *testing.T) {
	_, err := JSONObject("")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrParseFailure))
}
