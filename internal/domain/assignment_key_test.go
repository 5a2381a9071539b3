package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAssignmentKey(t *testing.T) {
	assert.Equal(t, "DP-15-2-6", EncodeAssignmentKey("DP-15", 2, 6))
	assert.Equal(t, "P1-10-20", AssignmentKey{ProjectID: "P1", AreaID: 10, PersonnelID: 20}.String())
}

func TestAssignmentKeyRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		project   string
		area      uint
		personnel uint
	}{
		{name: "plain project id", project: "P100", area: 1, personnel: 1},
		{name: "project id with a dash", project: "DP-15", area: 2, personnel: 6},
		{name: "project id with several dashes", project: "A-B-C-1", area: 30, personnel: 400},
		{name: "trailing dash in project id", project: "X-", area: 7, personnel: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeAssignmentKey(tt.project, tt.area, tt.personnel)

			key, err := DecodeAssignmentKey(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.project, key.ProjectID)
			assert.Equal(t, tt.area, key.AreaID)
			assert.Equal(t, tt.personnel, key.PersonnelID)
			assert.Equal(t, encoded, key.String())
		})
	}
}

func TestDecodeAssignmentKey_DashedProject(t *testing.T) {
	key, err := DecodeAssignmentKey("DP-15-2-6")
	require.NoError(t, err)
	assert.Equal(t, AssignmentKey{ProjectID: "DP-15", AreaID: 2, PersonnelID: 6}, key)
}

func TestDecodeAssignmentKey_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"novalidformat",
		"a-b-c",
		"P1-2",
		"P1-2-x",
		"P1-x-2",
		"-2-6",
		"P1-2-",
		"P1--6",
		"P1-2--6",
		"P1-2-6.5",
		"P-0-0",
		"P1-0-6",
		"P1-2-0",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := DecodeAssignmentKey(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedIdentifier)
		})
	}
}
