package events

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"playarena/internal/schedule"
)

// StringList is stored as a JSON array in a text column
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	return string(b), err
}

func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, (*[]string)(l))
}

// SlotList is stored as a JSON array of {start, end} in a text column
type SlotList []schedule.Slot

func (l SlotList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]schedule.Slot(l))
	return string(b), err
}

func (l *SlotList) Scan(src interface{}) error {
	return scanJSON(src, (*[]schedule.Slot)(l))
}

func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}
