package smartbill

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroclub-flight-ledger/internal/domain/invoice"
)

func TestParse(t *testing.T) {
	clientID := uuid.New()

	t.Run("FullInvoice", func(t *testing.T) {
		payload := `
<Invoice>
  <Series>AER</Series>
  <Number>0042</Number>
  <IssueDate>2024-01-01</IssueDate>
  <Status>paid</Status>
  <Client>
    <UserId>` + clientID.String() + `</UserId>
    <Name>Ion Popescu</Name>
  </Client>
  <Currency>RON</Currency>
  <Total>4550</Total>
  <Lines>
    <Line>
      <Name>Hour package 25h</Name>
      <Unit>ore</Unit>
      <Quantity>25</Quantity>
      <Amount>4500</Amount>
    </Line>
    <Line>
      <Name>Landing fee</Name>
      <Unit>buc</Unit>
      <Quantity>1</Quantity>
      <Amount>50</Amount>
    </Line>
  </Lines>
</Invoice>`

		inv, err := Parse([]byte(payload))
		require.NoError(t, err)

		assert.Equal(t, "AER", inv.Series)
		assert.Equal(t, "0042", inv.Number)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), inv.IssueDate)
		assert.Equal(t, invoice.StatusPaid, inv.Status)
		assert.Equal(t, clientID, inv.ClientUserID)
		assert.Equal(t, "RON", inv.Currency)
		assert.True(t, inv.TotalAmount.Equal(decimal.RequireFromString("4550")))

		require.Len(t, inv.Lines, 2)
		assert.Equal(t, "Hour package 25h", inv.Lines[0].ItemName)
		assert.Equal(t, "ore", inv.Lines[0].Unit)
		assert.True(t, inv.Lines[0].Quantity.Equal(decimal.RequireFromString("25")))
		assert.Equal(t, inv.ID, inv.Lines[0].InvoiceID)
		assert.Equal(t, "0042", inv.Lines[0].InvoiceNumber)
		assert.Equal(t, "RON", inv.Lines[0].Currency)

		assert.Equal(t, "buc", inv.Lines[1].Unit)
	})

	t.Run("TrancheHoursRecoveredFromDescription", func(t *testing.T) {
		payload := `
<Invoice>
  <Series>AER</Series>
  <Number>0051</Number>
  <IssueDate>2024-02-10</IssueDate>
  <Status>imported</Status>
  <Client><UserId>` + clientID.String() + `</UserId></Client>
  <Currency>RON</Currency>
  <Total>3000</Total>
  <Lines>
    <Line>
      <Name>Transa 2/4 curs PPL(A) - 11.25 ore</Name>
      <Unit>buc</Unit>
      <Quantity>1</Quantity>
      <Amount>3000</Amount>
    </Line>
  </Lines>
</Invoice>`

		inv, err := Parse([]byte(payload))
		require.NoError(t, err)
		require.Len(t, inv.Lines, 1)

		line := inv.Lines[0]
		assert.Equal(t, "ore", line.Unit)
		assert.True(t, line.Quantity.Equal(decimal.RequireFromString("11.25")),
			"hours must come from the description, not the unit quantity")
	})

	t.Run("TrancheWithCommaDecimal", func(t *testing.T) {
		payload := `
<Invoice>
  <Series>AER</Series>
  <Number>0052</Number>
  <IssueDate>2024-02-11</IssueDate>
  <Client><UserId>` + clientID.String() + `</UserId></Client>
  <Currency>RON</Currency>
  <Total>2000</Total>
  <Lines>
    <Line>
      <Name>Transa 1 curs PPL(A) 7,5 ore</Name>
      <Unit>buc</Unit>
      <Quantity>1</Quantity>
      <Amount>2000</Amount>
    </Line>
  </Lines>
</Invoice>`

		inv, err := Parse([]byte(payload))
		require.NoError(t, err)
		require.Len(t, inv.Lines, 1)
		assert.True(t, inv.Lines[0].Quantity.Equal(decimal.RequireFromString("7.5")))
	})

	t.Run("MissingStatusDefaultsToImported", func(t *testing.T) {
		payload := `
<Invoice>
  <Series>AER</Series>
  <Number>0060</Number>
  <IssueDate>2024-03-01</IssueDate>
  <Client><UserId>` + clientID.String() + `</UserId></Client>
  <Currency>RON</Currency>
  <Total>100</Total>
  <Lines>
    <Line><Name>Fuel surcharge</Name><Unit>buc</Unit><Quantity>1</Quantity><Amount>100</Amount></Line>
  </Lines>
</Invoice>`

		inv, err := Parse([]byte(payload))
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusImported, inv.Status)
	})

	t.Run("MalformedXML", func(t *testing.T) {
		inv, err := Parse([]byte(`<Invoice><Series>`))
		assert.Nil(t, inv)
		assert.Error(t, err)
	})

	t.Run("InvalidClientUserID", func(t *testing.T) {
		payload := `
<Invoice>
  <Series>AER</Series>
  <Number>0061</Number>
  <IssueDate>2024-03-01</IssueDate>
  <Client><UserId>not-a-uuid</UserId></Client>
  <Currency>RON</Currency>
  <Total>100</Total>
  <Lines>
    <Line><Name>X</Name><Unit>buc</Unit><Quantity>1</Quantity><Amount>100</Amount></Line>
  </Lines>
</Invoice>`

		inv, err := Parse([]byte(payload))
		assert.Nil(t, inv)
		assert.Error(t, err)
	})

	t.Run("InvalidIssueDate", func(t *testing.T) {
		payload := `
<Invoice>
  <Series>AER</Series>
  <Number>0062</Number>
  <IssueDate>01.03.2024</IssueDate>
  <Client><UserId>` + clientID.String() + `</UserId></Client>
  <Currency>RON</Currency>
  <Total>100</Total>
  <Lines>
    <Line><Name>X</Name><Unit>buc</Unit><Quantity>1</Quantity><Amount>100</Amount></Line>
  </Lines>
</Invoice>`

		inv, err := Parse([]byte(payload))
		assert.Nil(t, inv)
		assert.Error(t, err)
	})

	t.Run("NoLinesRejected", func(t *testing.T) {
		payload := `
<Invoice>
  <Series>AER</Series>
  <Number>0063</Number>
  <IssueDate>2024-03-01</IssueDate>
  <Client><UserId>` + clientID.String() + `</UserId></Client>
  <Currency>RON</Currency>
  <Total>0</Total>
  <Lines></Lines>
</Invoice>`

		inv, err := Parse([]byte(payload))
		assert.Nil(t, inv)
		assert.ErrorIs(t, err, invoice.ErrNoLines)
	})
}
