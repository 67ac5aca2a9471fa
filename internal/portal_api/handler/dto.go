package handler

// LedgerEntryResponse represents one ledger entry in API responses.
// Hour quantities are serialized as JSON numbers.
type LedgerEntryResponse struct {
	Date          string   `json:"date"`
	EventType     string   `json:"eventType"`
	Reference     string   `json:"reference"`
	Description   string   `json:"description"`
	HoursAdded    float64  `json:"hoursAdded"`
	HoursDeducted float64  `json:"hoursDeducted"`
	BalanceAfter  float64  `json:"balanceAfter"`
	FlightType    string   `json:"flightType,omitempty"`
	Role          string   `json:"role,omitempty"`
	InvoiceAmount *float64 `json:"invoiceAmount,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	FlightID      string   `json:"flightId,omitempty"`
}

// TypeHoursResponse represents hours flown and flight count for one type
type TypeHoursResponse struct {
	Hours float64 `json:"hours"`
	Count int     `json:"count"`
}

// HoursByTypeResponse represents the per-type hours breakdown
type HoursByTypeResponse struct {
	Invoiced TypeHoursResponse `json:"invoiced"`
	School   TypeHoursResponse `json:"school"`
	Charter  TypeHoursResponse `json:"charter"`
	Demo     TypeHoursResponse `json:"demo"`
	Ferry    TypeHoursResponse `json:"ferry"`
}

// SummaryResponse represents the ledger summary in API responses
type SummaryResponse struct {
	TotalHoursAdded    float64             `json:"totalHoursAdded"`
	TotalHoursDeducted float64             `json:"totalHoursDeducted"`
	FinalBalance       float64             `json:"finalBalance"`
	EntryCount         int                 `json:"entryCount"`
	InvoiceCount       int                 `json:"invoiceCount"`
	FlightCount        int                 `json:"flightCount"`
	HoursByType        HoursByTypeResponse `json:"hoursByType"`
}

// LedgerResponse represents a user's settlement ledger in API responses
type LedgerResponse struct {
	UserID        string                `json:"userId"`
	LedgerEntries []LedgerEntryResponse `json:"ledgerEntries"`
	Summary       SummaryResponse       `json:"summary"`
}

// CreateImportRequest represents a request to import a raw invoice payload
type CreateImportRequest struct {
	Source  string `json:"source" binding:"omitempty,oneof=smartbill_xml"`
	Payload string `json:"payload" binding:"required"`
}

// ImportResponse represents an accepted import request in API responses
type ImportResponse struct {
	ImportID string `json:"importId"`
	Status   string `json:"status"`
}
