package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/aeroclub-flight-ledger/internal/domain/shared"
	"github.com/aeroclub-flight-ledger/internal/portal_api/middleware"
	"github.com/aeroclub-flight-ledger/internal/portal_api/service"
)

// ImportHandler handles HTTP requests for invoice import submission
type ImportHandler struct {
	importService service.ImportService
	adminRoles    []string
	logger        *slog.Logger
}

// NewImportHandler creates a new import handler. Import submission is
// restricted to callers holding one of the adminRoles.
func NewImportHandler(logger *slog.Logger, importService service.ImportService, adminRoles []string) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		adminRoles:    adminRoles,
		logger:        logger,
	}
}

// Create accepts a raw invoice payload and enqueues it for asynchronous
// import, responding 202 with the import request ID
func (h *ImportHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		RespondUnauthorized(c, "")
		return
	}
	if !h.isAdmin(claims.Roles) {
		h.logger.Warn("Import submission denied", "requester_id", claims.UserID)
		RespondForbidden(c, "Invoice import requires an administrative role")
		return
	}

	var req CreateImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	source := req.Source
	if source == "" {
		source = shared.SourceSmartBillXML
	}

	importID, err := h.importService.RequestImport(c.Request.Context(), source, req.Payload, middleware.GetCorrelationID(c))
	if err != nil {
		h.logger.Error("Failed to enqueue import request", "source", source, "error", err)
		RespondInternalError(c)
		return
	}

	RespondAccepted(c, ImportResponse{
		ImportID: importID.String(),
		Status:   "QUEUED",
	})
}

func (h *ImportHandler) isAdmin(roles []string) bool {
	for _, admin := range h.adminRoles {
		for _, r := range roles {
			if r == admin {
				return true
			}
		}
	}
	return false
}
