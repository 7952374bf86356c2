package types

import (
	"bytes"
	"encoding/json"
)

// providerIDList decodes "aggregatorId" given as one id or as a list
type providerIDList []ProviderID

func (l *providerIDList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*l = nil
		return nil
	case len(b) > 0 && b[0] == '"':
		var id ProviderID
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*l = providerIDList{id}
		return nil
	}
	var ids []ProviderID
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	*l = ids
	return nil
}

// amountText decodes an amount sent as a JSON string or a JSON number,
// keeping the number's text so large values lose no precision
type amountText string

func (a *amountText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = amountText(n.String())
	return nil
}

// UnmarshalJSON accepts "aggregatorId" as a string or a list and
// "amountWei" as a string or a number
func (r *SwapRequest) UnmarshalJSON(b []byte) error {
	type plain SwapRequest
	aux := struct {
		*plain
		ProviderIDs providerIDList `json:"aggregatorId"`
		AmountWei   amountText     `json:"amountWei"`
	}{
		plain:       (*plain)(r),
		ProviderIDs: providerIDList(r.ProviderIDs),
		AmountWei:   amountText(r.AmountWei),
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.ProviderIDs = []ProviderID(aux.ProviderIDs)
	r.AmountWei = string(aux.AmountWei)
	return nil
}

// UnmarshalJSON accepts "aggregatorId" as a string or a list
func (q *StatusQuery) UnmarshalJSON(b []byte) error {
	type plain StatusQuery
	aux := struct {
		*plain
		ProviderIDs providerIDList `json:"aggregatorId"`
	}{
		plain:       (*plain)(q),
		ProviderIDs: providerIDList(q.ProviderIDs),
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	q.ProviderIDs = []ProviderID(aux.ProviderIDs)
	return nil
}
