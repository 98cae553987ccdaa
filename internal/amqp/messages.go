package amqp

import (
	"encoding/json"
	"time"

	"github.com/RIxiV1/SubSentry/internal/core"
)

// SavingsRecordedMessage announces a new ledger entry. It carries the full
// snapshot so consumers can export without a database connection.
type SavingsRecordedMessage struct {
	EntryID          string    `json:"entry_id"`
	UserID           string    `json:"user_id"`
	SubscriptionName string    `json:"subscription_name"`
	MonthlySavings   float64   `json:"monthly_savings"`
	SavedAt          time.Time `json:"saved_at"`
	Timestamp        time.Time `json:"timestamp"`
}

func NewSavingsRecordedMessage(entry core.SavingsEntry) *SavingsRecordedMessage {
	return &SavingsRecordedMessage{
		EntryID:          entry.ID,
		UserID:           entry.UserID,
		SubscriptionName: entry.SubscriptionName,
		MonthlySavings:   entry.MonthlySavings,
		SavedAt:          entry.SavedAt,
		Timestamp:        time.Now(),
	}
}

// Entry rebuilds the ledger entry the message was published for.
func (m *SavingsRecordedMessage) Entry() core.SavingsEntry {
	return core.SavingsEntry{
		ID:               m.EntryID,
		UserID:           m.UserID,
		SubscriptionName: m.SubscriptionName,
		MonthlySavings:   m.MonthlySavings,
		SavedAt:          m.SavedAt,
	}
}

func (m *SavingsRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SavingsRecordedMessageFromJSON(data []byte) (*SavingsRecordedMessage, error) {
	var msg SavingsRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
