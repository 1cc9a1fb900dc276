package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONStrings is a custom type for persisting a string slice as a JSON
// array in a single text column. It implements sql.Scanner and
// driver.Valuer so it round-trips through both sqlite and PostgreSQL
// without driver-specific handling.
type JSONStrings []string

// Scan implements the sql.Scanner interface.
func (j *JSONStrings) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.New("unsupported type for JSONStrings")
	}

	if len(data) == 0 {
		*j = JSONStrings{}
		return nil
	}

	return json.Unmarshal(data, j)
}

// Value implements the driver.Valuer interface. The value is a string so
// text columns receive literal JSON under every supported driver.
func (j JSONStrings) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
