package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/ledger"
)

// LedgerEventMessage is the wire form of a committed ledger mutation.
// Consumers get the full event payload and never need to read the database.
type LedgerEventMessage struct {
	Action        string    `json:"action"`
	TransactionID int64     `json:"transactionId"`
	UserID        string    `json:"userId"`
	Type          string    `json:"type"`
	AmountCents   int64     `json:"amountCents"`
	Date          string    `json:"date"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerEventMessage stamps a ledger event for publishing.
func NewLedgerEventMessage(ev ledger.Event) *LedgerEventMessage {
	return &LedgerEventMessage{
		Action:        ev.Action,
		TransactionID: ev.TransactionID,
		UserID:        ev.UserID,
		Type:          string(ev.Type),
		AmountCents:   ev.AmountCents,
		Date:          ev.Date,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
