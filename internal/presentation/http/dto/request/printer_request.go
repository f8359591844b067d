package request

// PrintTicketRequest is the request body for printing a ticket.
type PrintTicketRequest struct {
	Type string `json:"type" binding:"required,oneof=payment cashcut"`
	ID   string `json:"id" binding:"required,uuid"`
}
