package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONField stores T as a JSON document in a text column.
type JSONField[T any] struct {
	Data T
}

func MakeJSONField[T any](data T) JSONField[T] {
	return JSONField[T]{Data: data}
}

func (j JSONField[T]) Value() (driver.Value, error) {
	raw, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (j *JSONField[T]) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		var zero T
		j.Data = zero
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported json field source %T", value)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, &j.Data)
}
