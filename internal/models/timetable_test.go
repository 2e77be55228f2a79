package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentWireFormat(t *testing.T) {
	tests := []struct {
		name string
		in   Assignment
		want string
	}{
		{
			"taught",
			Assignment{Kind: AssignmentTaught, Subject: "Programming Lab", TeacherID: "faculty_001", Room: "L201"},
			`{"subject":"Programming Lab","teacher":"faculty_001","room":"L201"}`,
		},
		{
			"taught without room",
			Assignment{Kind: AssignmentTaught, Subject: "DBMS", TeacherID: "faculty_002"},
			`{"subject":"DBMS","teacher":"faculty_002","room":"NO ROOM AVAILABLE"}`,
		},
		{
			"free holding a room",
			Assignment{Kind: AssignmentFree, Room: "R101"},
			`{"subject":"FREE","teacher":"","room":"R101"}`,
		},
		{
			"free without room",
			Assignment{Kind: AssignmentFree},
			`{"subject":"FREE","teacher":"","room":"NO ROOM"}`,
		},
		{
			"break",
			Assignment{Kind: AssignmentBreak},
			`{"subject":"BREAK","teacher":"","room":""}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.in)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(raw))

			var back Assignment
			require.NoError(t, json.Unmarshal(raw, &back))
			assert.Equal(t, tc.in, back)
		})
	}
}
