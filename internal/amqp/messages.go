package amqp

import (
	"encoding/json"
	"time"
)

// TableExportMessage asks the export worker to push one cached table to
// Google Sheets. It carries the cache path and the target settings captured
// at request time, so a later settings change does not rewrite in-flight
// requests.
type TableExportMessage struct {
	Path       string    `json:"path"`
	SheetName  string    `json:"sheet_name"`
	EmailShare string    `json:"email_share"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewTableExportMessage creates an export request for a cached table.
func NewTableExportMessage(path, sheetName, emailShare string) *TableExportMessage {
	return &TableExportMessage{
		Path:       path,
		SheetName:  sheetName,
		EmailShare: emailShare,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TableExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TableExportMessageFromJSON creates a message from JSON bytes
func TableExportMessageFromJSON(data []byte) (*TableExportMessage, error) {
	var msg TableExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
