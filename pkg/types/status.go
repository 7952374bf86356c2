package types

// Status is the delivery state of a cross-chain transfer
type Status string

const (
	StatusWaiting        Status = "WAITING"
	StatusPending        Status = "PENDING"
	StatusOngoing        Status = "ONGOING"
	StatusDone           Status = "DONE"
	StatusSuccess        Status = "SUCCESS"
	StatusPartialSuccess Status = "PARTIAL_SUCCESS"
	StatusNeedsGas       Status = "NEEDS_GAS"
	StatusFailed         Status = "FAILED"
	StatusNotFound       Status = "NOT_FOUND"
)

// Final reports whether no further transition is expected
func (s Status) Final() bool {
	switch s {
	case StatusDone, StatusSuccess, StatusPartialSuccess, StatusFailed:
		return true
	}
	return false
}

// StatusQuery identifies a transfer. Providers read the fields they understand.
type StatusQuery struct {
	ProviderIDs    []ProviderID `json:"aggregatorId,omitempty"`
	TxHash         string       `json:"txHash,omitempty"`
	TransactionID  string       `json:"transactionId,omitempty"`
	Bridge         string       `json:"bridge,omitempty"`
	FromChainID    int64        `json:"fromChainId,omitempty"`
	ToChainID      int64        `json:"toChainId,omitempty"`
	DepositAddress string       `json:"depositAddress,omitempty"`
}

// ID returns the transaction id, falling back to the hash
func (q StatusQuery) ID() string {
	if q.TransactionID != "" {
		return q.TransactionID
	}
	return q.TxHash
}

// StatusResponse is a provider's answer mapped onto the shared vocabulary
type StatusResponse struct {
	ID               string     `json:"id"`
	Status           Status     `json:"status"`
	TxHash           string     `json:"txHash,omitempty"`
	SendingTx        string     `json:"sendingTx,omitempty"`
	ReceivingTx      string     `json:"receivingTx,omitempty"`
	Substatus        string     `json:"substatus,omitempty"`
	SubstatusMessage string     `json:"substatusMessage,omitempty"`
	ProviderID       ProviderID `json:"aggregatorId,omitempty"`
}
