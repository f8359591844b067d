package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/escolarapp/escolar-api/internal/application/service"
	"github.com/escolarapp/escolar-api/internal/presentation/http/dto/request"
	"github.com/escolarapp/escolar-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus()
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	if err := h.printerService.TestPrint(c.Request.Context()); err != nil {
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", nil)
}

// PrintTicket prints a ticket for a payment or a cash cut.
func (h *PrinterHandler) PrintTicket(c *gin.Context) {
	var req request.PrintTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		response.BadRequest(c, "Invalid ID format")
		return
	}

	ctx := c.Request.Context()

	switch req.Type {
	case "payment":
		ticket, err := h.printerService.PrintPaymentTicket(ctx, id)
		if err != nil {
			// If the ticket was built but printing failed, return it with a warning
			if ticket != nil {
				response.OK(c, "Ticket generated but printing failed", gin.H{
					"ticket":  ticket,
					"warning": err.Error(),
				})
				return
			}
			response.Error(c, err)
			return
		}
		response.OK(c, "Payment ticket printed successfully", gin.H{
			"ticket": ticket,
		})

	case "cashcut":
		ticket, err := h.printerService.PrintCashCutTicket(ctx, id)
		if err != nil {
			if ticket != nil {
				response.OK(c, "Ticket generated but printing failed", gin.H{
					"ticket":  ticket,
					"warning": err.Error(),
				})
				return
			}
			response.Error(c, err)
			return
		}
		response.OK(c, "Cash cut ticket printed successfully", gin.H{
			"ticket": ticket,
		})

	default:
		response.ErrorWithCode(c, http.StatusBadRequest, "Invalid ticket type. Use 'payment' or 'cashcut'")
	}
}
