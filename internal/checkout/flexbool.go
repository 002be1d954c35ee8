package checkout

import (
	"encoding/json"
	"strings"
)

// FlexBool tolerates the different shapes the "ander verzendadres" checkbox
// arrives in: a real bool, a number, or strings like "1", "true", "on" and
// "ja". Anything else is false.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		*b = FlexBool(v)
	case float64:
		*b = v == 1
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		*b = s == "1" || s == "true" || s == "on" || s == "ja"
	default:
		*b = false
	}
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}
