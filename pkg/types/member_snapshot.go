package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SnapshotMember is one group member as frozen into an order at
// finalization time.
type SnapshotMember struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	JoinedVia   string    `json:"joined_via"`
	JoinedAt    time.Time `json:"joined_at"`
}

// MemberSnapshot is the jsonb membership roster stored on a group order.
type MemberSnapshot []SnapshotMember

func (m MemberSnapshot) Value() (driver.Value, error) {
	if m == nil {
		m = MemberSnapshot{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("member snapshot: marshal %w", err)
	}
	return string(raw), nil
}

func (m *MemberSnapshot) Scan(value interface{}) error {
	if value == nil {
		*m = MemberSnapshot{}
		return nil
	}

	raw, ok := toString(value)
	if !ok {
		return fmt.Errorf("member snapshot: unsupported scan type %T", value)
	}

	if raw == "" {
		*m = MemberSnapshot{}
		return nil
	}

	return json.Unmarshal([]byte(raw), m)
}

func toString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}
