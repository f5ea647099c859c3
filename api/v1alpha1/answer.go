package v1alpha1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Answer is either a scalar (single choice, text, numeric, file name) or a
// list (multi choice). Numbers and booleans are kept in their JSON text form.
type Answer struct {
	values []string
	list   bool
}

func StringAnswer(s string) Answer {
	return Answer{values: []string{s}}
}

func ListAnswer(values ...string) Answer {
	return Answer{values: append([]string{}, values...), list: true}
}

func (a Answer) IsList() bool {
	return a.list
}

// String returns the scalar value, or the first element of a list.
func (a Answer) String() string {
	if len(a.values) == 0 {
		return ""
	}
	return a.values[0]
}

func (a Answer) Values() []string {
	return a.values
}

func (a Answer) IsEmpty() bool {
	for _, v := range a.values {
		if v != "" {
			return false
		}
	}
	return true
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.list {
		if a.values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.values)
	}
	return json.Marshal(a.String())
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}

	if data[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		values := make([]string, 0, len(raw))
		for _, r := range raw {
			v, err := scalarText(r)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		*a = Answer{values: values, list: true}
		return nil
	}

	v, err := scalarText(data)
	if err != nil {
		return err
	}
	*a = StringAnswer(v)
	return nil
}

func scalarText(data json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported answer value %s", string(data))
	}
}
