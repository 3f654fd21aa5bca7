package common

import (
	"bytes"
	"encoding/json"
)

// Numeric accepts a JSON number or a numeric string and keeps the raw text
// for later parsing. Storefront clients send prices both as 25 and "25.00",
// so the boundary tolerates either; null and absent both decode to empty.
type Numeric string

func (n *Numeric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = Numeric(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = Numeric(num.String())
	return nil
}

func (n Numeric) String() string {
	return string(n)
}

// IsEmpty reports whether no value was supplied.
func (n Numeric) IsEmpty() bool {
	return n == ""
}
