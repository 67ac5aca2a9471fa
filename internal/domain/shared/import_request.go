package shared

import (
	"time"

	"github.com/google/uuid"
)

// Known import payload sources
const (
	SourceSmartBillXML = "smartbill_xml"
)

// InvoiceImportRequest defines a Kafka message carrying one raw invoice
// payload for the importer to parse and persist
type InvoiceImportRequest struct {
	ImportID      uuid.UUID `json:"import_id"`
	Source        string    `json:"source"`
	Payload       string    `json:"payload"` // raw document, e.g. SmartBill XML
	CorrelationID string    `json:"correlation_id"`
	ReceivedAt    time.Time `json:"received_at"`
}
