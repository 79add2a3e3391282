package enums

import "fmt"

// MemberSource records how a member entered a group.
type MemberSource string

const (
	MemberSourceCreator  MemberSource = "creator"
	MemberSourceCode     MemberSource = "code"
	MemberSourceApproval MemberSource = "approval"
	MemberSourceInvite   MemberSource = "invite"
)

var validMemberSources = []MemberSource{
	MemberSourceCreator,
	MemberSourceCode,
	MemberSourceApproval,
	MemberSourceInvite,
}

// String implements fmt.Stringer.
func (m MemberSource) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberSource.
func (m MemberSource) IsValid() bool {
	for _, candidate := range validMemberSources {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMemberSource converts raw input into a MemberSource.
func ParseMemberSource(value string) (MemberSource, error) {
	for _, candidate := range validMemberSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member source %q", value)
}
