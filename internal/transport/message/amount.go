package message

import (
	"bytes"
	"encoding/json"
)

// Amount is a money value as sent by clients: a JSON number or a string.
// Any other JSON value is kept as its raw text so that the amount validator
// reports it instead of the payload decoder.
type Amount string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		*a = Amount(data)
	}
	return nil
}
