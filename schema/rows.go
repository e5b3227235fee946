package schema

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

var errUnexpectedColumnType = errors.New("unexpected column type")

// URLList is a JSON-encoded ordered list of image URLs. Order is significant:
// the first element is the cover image.
type URLList []string

func (s *URLList) Scan(src interface{}) error {
	if src == nil {
		*s = nil

		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}

	return fmt.Errorf("%w: %T", errUnexpectedColumnType, src)
}

// Cover returns the first URL or an empty string.
func (s URLList) Cover() string {
	if len(s) == 0 {
		return ""
	}

	return s[0]
}

func (s URLList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}

	return json.Marshal([]string(s))
}

// NullJSON is a nullable JSON document column.
type NullJSON struct {
	JSON  json.RawMessage
	Valid bool
}

func (s *NullJSON) Scan(src interface{}) error {
	if src == nil {
		s.JSON, s.Valid = nil, false

		return nil
	}

	switch v := src.(type) {
	case []byte:
		s.JSON = append(s.JSON[0:0], v...)
	case string:
		s.JSON = json.RawMessage(v)
	default:
		return fmt.Errorf("%w: %T", errUnexpectedColumnType, src)
	}

	s.Valid = true

	return nil
}

func (s NullJSON) Value() (driver.Value, error) {
	if !s.Valid {
		return nil, nil
	}

	return []byte(s.JSON), nil
}

func (s NullJSON) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}

	return s.JSON, nil
}

func (s *NullJSON) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		s.JSON, s.Valid = nil, false

		return nil
	}

	s.JSON = append(s.JSON[0:0], data...)
	s.Valid = true

	return nil
}
