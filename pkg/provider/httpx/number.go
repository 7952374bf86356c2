package httpx

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Number decodes a JSON value sent either as a number or as a string
type Number string

// UnmarshalJSON accepts 42, "42", "0x2a" and null
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = Number(num.String())
	return nil
}

// String returns the raw text
func (n Number) String() string {
	return string(n)
}

// Int returns the value as an int, 0 when it is not an integer
func (n Number) Int() int {
	v, err := strconv.Atoi(string(n))
	if err != nil {
		f, ferr := strconv.ParseFloat(string(n), 64)
		if ferr != nil {
			return 0
		}
		return int(f)
	}
	return v
}

// Float returns the value as a float64, 0 when it is not numeric
func (n Number) Float() float64 {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0
	}
	return f
}
