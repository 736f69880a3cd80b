package message

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON renders whichever of Output or Error is set as a flat object.
func (i ReturnItem) MarshalJSON() ([]byte, error) {
	switch {
	case i.Output != nil:
		return json.Marshal(i.Output)
	case i.Error != nil:
		return json.Marshal(i.Error)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON discriminates Output from Error by the presence of the
// outputType field (Output) versus errorName (Error).
func (i *ReturnItem) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = ReturnItem{}
		return nil
	}

	var probe struct {
		OutputType *string `json:"outputType"`
		ErrorName  *string `json:"errorName"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	switch {
	case probe.OutputType != nil:
		var out Output
		if err := json.Unmarshal(data, &out); err != nil {
			return err
		}
		*i = ReturnItem{Output: &out}
	case probe.ErrorName != nil:
		var errItem ErrorItem
		if err := json.Unmarshal(data, &errItem); err != nil {
			return err
		}
		*i = ReturnItem{Error: &errItem}
	default:
		return ErrUnknownReturnItem
	}
	return nil
}
