// Package smartbill parses invoice documents exported by the SmartBill
// billing provider into the portal's invoice model.
package smartbill

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aeroclub-flight-ledger/internal/domain/invoice"
)

const issueDateLayout = "2006-01-02"

// trancheHours matches PPL course tranches whose hour quantity lives in the
// item description rather than the unit column, e.g.
// "Transa 2/4 curs PPL(A) - 11.25 ore".
var trancheHours = regexp.MustCompile(`(?i)trans[ae]\s*\d+(?:\s*/\s*\d+)?[^0-9]*(\d+(?:[.,]\d+)?)\s*or[ae]`)

type xmlInvoice struct {
	XMLName   xml.Name  `xml:"Invoice"`
	Series    string    `xml:"Series"`
	Number    string    `xml:"Number"`
	IssueDate string    `xml:"IssueDate"`
	Status    string    `xml:"Status"`
	Client    xmlClient `xml:"Client"`
	Currency  string    `xml:"Currency"`
	Total     string    `xml:"Total"`
	Lines     []xmlLine `xml:"Lines>Line"`
}

type xmlClient struct {
	UserID string `xml:"UserId"`
	Name   string `xml:"Name"`
}

type xmlLine struct {
	Name     string `xml:"Name"`
	Unit     string `xml:"Unit"`
	Quantity string `xml:"Quantity"`
	Amount   string `xml:"Amount"`
}

// Parse converts a SmartBill XML export into an invoice ready to persist.
// Lines whose hour quantity is embedded in the item description (PPL course
// tranches) are normalized into hour-denominated lines.
func Parse(payload []byte) (*invoice.Invoice, error) {
	var doc xmlInvoice
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode invoice XML: %w", err)
	}

	issueDate, err := time.Parse(issueDateLayout, strings.TrimSpace(doc.IssueDate))
	if err != nil {
		return nil, fmt.Errorf("invalid issue date %q: %w", doc.IssueDate, err)
	}

	clientUserID, err := uuid.Parse(strings.TrimSpace(doc.Client.UserID))
	if err != nil {
		return nil, fmt.Errorf("invalid client user id %q: %w", doc.Client.UserID, err)
	}

	status, err := parseStatus(doc.Status)
	if err != nil {
		return nil, err
	}

	totalAmount, err := parseDecimal(doc.Total)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice total %q: %w", doc.Total, err)
	}

	number := strings.TrimSpace(doc.Number)
	inv := &invoice.Invoice{
		ID:           uuid.New(),
		Series:       strings.TrimSpace(doc.Series),
		Number:       number,
		IssueDate:    issueDate,
		Status:       status,
		ClientUserID: clientUserID,
		Currency:     strings.TrimSpace(doc.Currency),
		TotalAmount:  totalAmount,
		CreatedAt:    time.Now().UTC(),
	}

	for _, l := range doc.Lines {
		line, err := parseLine(l)
		if err != nil {
			return nil, fmt.Errorf("invoice %s%s: %w", inv.Series, number, err)
		}
		line.InvoiceID = inv.ID
		line.InvoiceNumber = number
		line.IssueDate = issueDate
		line.Currency = inv.Currency
		inv.Lines = append(inv.Lines, line)
	}

	if err := inv.Validate(); err != nil {
		return nil, fmt.Errorf("invalid invoice %s%s: %w", inv.Series, number, err)
	}

	return inv, nil
}

func parseLine(l xmlLine) (invoice.Line, error) {
	quantity, err := parseDecimal(l.Quantity)
	if err != nil {
		return invoice.Line{}, fmt.Errorf("invalid line quantity %q: %w", l.Quantity, err)
	}
	amount, err := parseDecimal(l.Amount)
	if err != nil {
		return invoice.Line{}, fmt.Errorf("invalid line amount %q: %w", l.Amount, err)
	}

	unit := strings.TrimSpace(l.Unit)
	name := strings.TrimSpace(l.Name)

	// Course tranches are billed per tranche, with the hour count only in
	// the description. Recover it so the line credits hours.
	if !invoice.IsHourUnit(unit) {
		if m := trancheHours.FindStringSubmatch(name); m != nil {
			hours, err := parseDecimal(m[1])
			if err == nil {
				unit = "ore"
				quantity = hours
			}
		}
	}

	return invoice.Line{
		ItemName: name,
		Unit:     unit,
		Quantity: quantity,
		Amount:   amount,
	}, nil
}

func parseStatus(raw string) (invoice.Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "imported":
		return invoice.StatusImported, nil
	case "paid":
		return invoice.StatusPaid, nil
	case "draft":
		return invoice.StatusDraft, nil
	}
	return "", fmt.Errorf("unknown invoice status %q", raw)
}

// parseDecimal accepts both dot and comma decimal separators; SmartBill
// exports use the Romanian locale in some fields
func parseDecimal(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
