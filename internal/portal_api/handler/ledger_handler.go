package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aeroclub-flight-ledger/internal/domain/ledger"
	"github.com/aeroclub-flight-ledger/internal/portal_api/middleware"
	"github.com/aeroclub-flight-ledger/internal/portal_api/service"
)

// LedgerHandler handles HTTP requests for settlement ledger operations
type LedgerHandler struct {
	ledgerService service.LedgerService
	adminRoles    []string
	logger        *slog.Logger
}

// NewLedgerHandler creates a new ledger handler. Callers holding one of the
// adminRoles may read any user's ledger; everyone else only their own.
func NewLedgerHandler(logger *slog.Logger, ledgerService service.LedgerService, adminRoles []string) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		adminRoles:    adminRoles,
		logger:        logger,
	}
}

// GetUserLedger computes and returns the settlement ledger for the user in
// the path. Rejects with 403 unless the caller is an administrator or the
// subject user. A failed backing store query yields 502 with no partial data.
func (h *LedgerHandler) GetUserLedger(c *gin.Context) {
	idParam := c.Param("id")
	userID, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid user ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid user ID")
		return
	}

	claims := middleware.GetClaims(c)
	if claims == nil {
		RespondUnauthorized(c, "")
		return
	}
	if !h.isAdmin(claims.Roles) && claims.UserID != userID.String() {
		h.logger.Warn("Ledger access denied",
			"requester_id", claims.UserID,
			"subject_id", userID.String(),
		)
		RespondForbidden(c, "You may only view your own ledger")
		return
	}

	statement, err := h.ledgerService.GetUserLedger(c.Request.Context(), userID)
	if err != nil {
		var upstream service.ErrUpstreamFetch
		if errors.As(err, &upstream) {
			h.logger.Error("Upstream fetch failed", "source", upstream.Source, "user_id", userID.String(), "error", err)
			RespondBadGateway(c, "Failed to fetch "+upstream.Source)
			return
		}
		h.logger.Error("Failed to compute ledger", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapStatementToResponse(statement))
}

func (h *LedgerHandler) isAdmin(roles []string) bool {
	for _, admin := range h.adminRoles {
		for _, r := range roles {
			if r == admin {
				return true
			}
		}
	}
	return false
}

// mapStatementToResponse maps a ledger statement to its response DTO
func mapStatementToResponse(statement *ledger.Statement) LedgerResponse {
	entries := make([]LedgerEntryResponse, 0, len(statement.Entries))
	for _, e := range statement.Entries {
		entry := LedgerEntryResponse{
			Date:          e.Date.Format(time.RFC3339),
			EventType:     mapEventType(e.EventType),
			Reference:     e.Reference,
			Description:   e.Description,
			HoursAdded:    e.HoursAdded.InexactFloat64(),
			HoursDeducted: e.HoursDeducted.InexactFloat64(),
			BalanceAfter:  e.BalanceAfter.InexactFloat64(),
			FlightType:    e.FlightType,
			Role:          string(e.Role),
			Currency:      e.Currency,
			FlightID:      e.FlightID,
		}
		if e.InvoiceAmount != nil {
			amount := e.InvoiceAmount.InexactFloat64()
			entry.InvoiceAmount = &amount
		}
		entries = append(entries, entry)
	}

	s := statement.Summary
	return LedgerResponse{
		UserID:        statement.UserID.String(),
		LedgerEntries: entries,
		Summary: SummaryResponse{
			TotalHoursAdded:    s.TotalHoursAdded.InexactFloat64(),
			TotalHoursDeducted: s.TotalHoursDeducted.InexactFloat64(),
			FinalBalance:       s.FinalBalance.InexactFloat64(),
			EntryCount:         s.EntryCount,
			InvoiceCount:       s.InvoiceCount,
			FlightCount:        s.FlightCount,
			HoursByType: HoursByTypeResponse{
				Invoiced: mapTypeHours(s.HoursByType.Invoiced),
				School:   mapTypeHours(s.HoursByType.School),
				Charter:  mapTypeHours(s.HoursByType.Charter),
				Demo:     mapTypeHours(s.HoursByType.Demo),
				Ferry:    mapTypeHours(s.HoursByType.Ferry),
			},
		},
	}
}

func mapEventType(t ledger.EventType) string {
	switch t {
	case ledger.EventTypeInvoice:
		return "Invoice"
	case ledger.EventTypeFlight:
		return "Flight"
	}
	return string(t)
}

func mapTypeHours(t ledger.TypeHours) TypeHoursResponse {
	return TypeHoursResponse{
		Hours: t.Hours.InexactFloat64(),
		Count: t.Count,
	}
}
