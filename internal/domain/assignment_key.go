package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedIdentifier is returned when a composite assignment identifier cannot be decoded
var ErrMalformedIdentifier = errors.New("malformed assignment identifier")

// AssignmentKey is the structured identity of a project assignment.
// Externally it is serialized as "{project}-{area}-{personnel}".
type AssignmentKey struct {
	ProjectID   string
	AreaID      uint
	PersonnelID uint
}

// EncodeAssignmentKey builds the external identifier for an assignment triple
func EncodeAssignmentKey(projectID string, areaID, personnelID uint) string {
	return fmt.Sprintf("%s-%d-%d", projectID, areaID, personnelID)
}

// String returns the external identifier
func (k AssignmentKey) String() string {
	return EncodeAssignmentKey(k.ProjectID, k.AreaID, k.PersonnelID)
}

// DecodeAssignmentKey parses an external identifier. The project part may itself
// contain dashes, so the area and personnel parts are taken from the right.
func DecodeAssignmentKey(identifier string) (AssignmentKey, error) {
	if identifier == "" || !strings.Contains(identifier, "-") {
		return AssignmentKey{}, fmt.Errorf("%w: %q", ErrMalformedIdentifier, identifier)
	}

	last := strings.LastIndex(identifier, "-")
	rest, personnelPart := identifier[:last], identifier[last+1:]

	middle := strings.LastIndex(rest, "-")
	if middle < 0 {
		return AssignmentKey{}, fmt.Errorf("%w: %q has fewer than three parts", ErrMalformedIdentifier, identifier)
	}
	projectID, areaPart := rest[:middle], rest[middle+1:]

	if projectID == "" {
		return AssignmentKey{}, fmt.Errorf("%w: %q has an empty project part", ErrMalformedIdentifier, identifier)
	}

	areaID, err := strconv.ParseUint(areaPart, 10, 0)
	if err != nil || areaID == 0 {
		return AssignmentKey{}, fmt.Errorf("%w: area %q is not a positive integer", ErrMalformedIdentifier, areaPart)
	}
	personnelID, err := strconv.ParseUint(personnelPart, 10, 0)
	if err != nil || personnelID == 0 {
		return AssignmentKey{}, fmt.Errorf("%w: personnel %q is not a positive integer", ErrMalformedIdentifier, personnelPart)
	}

	return AssignmentKey{
		ProjectID:   projectID,
		AreaID:      uint(areaID),
		PersonnelID: uint(personnelID),
	}, nil
}
