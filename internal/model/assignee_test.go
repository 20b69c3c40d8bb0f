package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAssignee(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind AssigneeKind
		id   string
		disp string
	}{
		{"null", `null`, AssigneeNone, "", ""},
		{"empty string", `""`, AssigneeNone, "", ""},
		{"bare id", `"a1"`, AssigneeRef, "a1", "a1"},
		{"expanded", `{"_id":"a1","name":"Ann"}`, AssigneeExpanded, "a1", "Ann"},
		{"expanded with id and first/last", `{"id":"a2","firstName":"Bo","lastName":"Li"}`, AssigneeExpanded, "a2", "Bo Li"},
		{"empty object", `{}`, AssigneeNone, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NormalizeAssignee([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, a.Kind)
			assert.Equal(t, tt.id, a.ID)
			assert.Equal(t, tt.disp, a.DisplayName())
		})
	}

	_, err := NormalizeAssignee([]byte(`42`))
	assert.Error(t, err)
}

func TestAssigneeJSONField(t *testing.T) {
	var v struct {
		Assigned Assignee `json:"assignedAdmin"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"assignedAdmin":{"_id":"a1","name":"Ann"}}`), &v))
	assert.Equal(t, AssigneeExpanded, v.Assigned.Kind)

	out, err := json.Marshal(Assignee{})
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(out))

	out, err = json.Marshal(AssigneeRefTo("a9"))
	require.NoError(t, err)
	assert.JSONEq(t, `"a9"`, string(out))
}

func TestMergeAssignee(t *testing.T) {
	ann := ExpandedAssignee(Admin{ID: "a1", Name: "Ann"})

	t.Run("bare ref to same admin keeps expanded", func(t *testing.T) {
		got := MergeAssignee(ann, AssigneeRefTo("a1"))
		assert.Equal(t, ann, got)
		assert.Equal(t, "Ann", got.DisplayName())
	})
	t.Run("bare ref to another admin replaces", func(t *testing.T) {
		got := MergeAssignee(ann, AssigneeRefTo("a2"))
		assert.Equal(t, AssigneeRef, got.Kind)
		assert.Equal(t, "a2", got.ID)
	})
	t.Run("unassign wins", func(t *testing.T) {
		assert.True(t, MergeAssignee(ann, NoAssignee()).IsNone())
	})
	t.Run("expanded next wins", func(t *testing.T) {
		bo := ExpandedAssignee(Admin{ID: "a1", Name: "Ann B."})
		assert.Equal(t, bo, MergeAssignee(ann, bo))
	})
}
