package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
)

// PriceText is the price as typed into the form. JSON numbers are accepted
// and kept in their literal form so the two-decimal rule sees what was sent.
type PriceText string

func (p *PriceText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriceText(strings.TrimSpace(s))
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PriceText(n.String())
	return nil
}

// Input is the add/edit product form.
type Input struct {
	Title       string    `json:"title" validate:"notblank"`
	Price       PriceText `json:"price" validate:"required,price"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
}
