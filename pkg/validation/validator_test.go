package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Title    string `json:"title" validate:"notblank"`
	Position string `json:"position" validate:"position"`
	Role     string `json:"role" validate:"omitempty,role"`
}

func TestCustomTags(t *testing.T) {
	v := New()
	require.NoError(t, v.Struct(payload{Title: "Climate", Position: "FOR", Role: "TEACHER"}))

	err := v.Struct(payload{Title: "  ", Position: "ABSTAIN", Role: "ADMIN"})
	require.Error(t, err)
	messages := v.Messages(err)
	assert.Equal(t, "title cannot be blank", messages["title"])
	assert.Equal(t, "position must be one of FOR, AGAINST, NEUTRAL", messages["position"])
	assert.Contains(t, messages, "role")
}

func TestSummaryIsSorted(t *testing.T) {
	v := New()
	err := v.Struct(payload{Position: "x"})
	assert.Equal(t, "position must be one of FOR, AGAINST, NEUTRAL; title cannot be blank", v.Summary(err))
	assert.Nil(t, v.Messages(nil))
}
