package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/escolarapp/escolar-api/internal/domain/repository"
	infraRepo "github.com/escolarapp/escolar-api/internal/infrastructure/repository"
	"github.com/escolarapp/escolar-api/pkg/printer"
)

// PrinterService formats cashier tickets and sends them to the thermal
// printer: payment tickets for the parent, cut tickets for the drawer.
type PrinterService struct {
	printer     printer.Printer
	paymentRepo repository.PaymentRepository
	cashCutRepo repository.CashCutRepository
	studentRepo repository.StudentRepository
	tenantRepo  repository.TenantRepository
	printerType string
	width       int
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	paymentRepo repository.PaymentRepository,
	cashCutRepo repository.CashCutRepository,
	studentRepo repository.StudentRepository,
	tenantRepo repository.TenantRepository,
	printerType string,
	width int,
) *PrinterService {
	if width <= 0 {
		width = 32
	}
	return &PrinterService{
		printer:     p,
		paymentRepo: paymentRepo,
		cashCutRepo: cashCutRepo,
		studentRepo: studentRepo,
		tenantRepo:  tenantRepo,
		printerType: printerType,
		width:       width,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint sends a short test page to verify connectivity.
func (s *PrinterService) TestPrint(ctx context.Context) error {
	doc := printer.NewDocument(s.width)
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text(s.schoolName(ctx)).
		SetBold(false).
		Text("Prueba de impresion").
		Separator('-').
		SetAlign(printer.AlignLeft).
		KeyValue("Fecha:", time.Now().Format("02/01/2006 15:04")).
		FeedLines(3).
		PartialCut()

	if err := s.printer.Print(doc.Bytes()); err != nil {
		return fmt.Errorf("failed to print test page: %w", err)
	}
	return nil
}

// PaymentTicket is the printable view of a payment.
type PaymentTicket struct {
	SchoolName string       `json:"school_name"`
	Folio      string       `json:"folio"`
	Date       string       `json:"date"`
	Student    string       `json:"student,omitempty"`
	Method     string       `json:"method"`
	Amount     string       `json:"amount"`
	Applied    string       `json:"applied"`
	Unapplied  string       `json:"unapplied"`
	Lines      []TicketLine `json:"lines"`
}

// TicketLine is one receipt covered by the payment.
type TicketLine struct {
	Folio   string `json:"folio"`
	Concept string `json:"concept"`
	Amount  string `json:"amount"`
	Balance string `json:"balance"`
}

// schoolName resolves the tenant's display name for ticket headers.
func (s *PrinterService) schoolName(ctx context.Context) string {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return "Escolar"
	}
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil || tenant == nil {
		return "Escolar"
	}
	return tenant.Name
}

// PrintPaymentTicket fetches a payment with its allocations and prints
// the cashier ticket. The ticket data is returned so the handler can
// respond with JSON when no printer is configured.
func (s *PrinterService) PrintPaymentTicket(ctx context.Context, paymentID uuid.UUID) (*PaymentTicket, error) {
	payment, err := s.paymentRepo.GetWithAllocations(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s not found", paymentID)
	}

	ticket := &PaymentTicket{
		SchoolName: s.schoolName(ctx),
		Folio:      payment.ID.String()[:8],
		Date:       payment.PaidAt.Format("02/01/2006 15:04"),
		Method:     payment.Method.String(),
		Amount:     payment.Amount.StringFixed(2),
		Applied:    payment.AmountApplied.StringFixed(2),
		Unapplied:  payment.AmountUnapplied.StringFixed(2),
	}

	if payment.StudentID != nil {
		student, err := s.studentRepo.GetByID(ctx, *payment.StudentID)
		if err == nil && student != nil {
			ticket.Student = student.FullName()
		}
	}

	for _, a := range payment.Allocations {
		line := TicketLine{
			Amount:  a.AmountApplied.StringFixed(2),
			Balance: a.BalanceAfter.StringFixed(2),
		}
		if a.Receipt != nil {
			line.Folio = a.Receipt.Folio
			line.Concept = a.Receipt.Concept
		}
		ticket.Lines = append(ticket.Lines, line)
	}

	data := s.formatPaymentTicket(ticket)
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (payment %s): %v", paymentID, err)
		return ticket, fmt.Errorf("failed to print ticket: %w", err)
	}
	return ticket, nil
}

func (s *PrinterService) formatPaymentTicket(t *PaymentTicket) []byte {
	doc := printer.NewDocument(s.width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(t.SchoolName).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		Text("COMPROBANTE DE PAGO")

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Folio:", t.Folio).
		KeyValue("Fecha:", t.Date)
	if t.Student != "" {
		doc.KeyValue("Alumno:", t.Student)
	}
	doc.KeyValue("Forma de pago:", t.Method)

	doc.Separator('-')

	for _, line := range t.Lines {
		doc.Text(line.Folio + " " + line.Concept).
			KeyValue("  Abono:", line.Amount).
			KeyValue("  Saldo:", line.Balance)
	}

	doc.Separator('-')

	doc.SetBold(true).
		KeyValue("TOTAL:", t.Amount).
		SetBold(false).
		KeyValue("Aplicado:", t.Applied)
	if t.Unapplied != "0.00" {
		doc.KeyValue("Sin aplicar:", t.Unapplied)
	}

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Conserve su comprobante").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// CashCutTicket is the printable view of a register session close.
type CashCutTicket struct {
	SchoolName     string `json:"school_name"`
	Folio          string `json:"folio"`
	OpenedAt       string `json:"opened_at"`
	ClosedAt       string `json:"closed_at,omitempty"`
	OpeningAmount  string `json:"opening_amount"`
	TotalCash      string `json:"total_cash"`
	TotalTransfer  string `json:"total_transfer"`
	TotalCard      string `json:"total_card"`
	TotalGeneral   string `json:"total_general"`
	PaymentCount   int    `json:"payment_count"`
	ExpectedDrawer string `json:"expected_drawer"`
}

// PrintCashCutTicket prints the corte de caja summary ticket.
func (s *PrinterService) PrintCashCutTicket(ctx context.Context, cutID uuid.UUID) (*CashCutTicket, error) {
	cut, err := s.cashCutRepo.GetByID(ctx, cutID)
	if err != nil {
		return nil, err
	}
	if cut == nil {
		return nil, fmt.Errorf("cash cut %s not found", cutID)
	}

	core := cut.ToBilling()
	ticket := &CashCutTicket{
		SchoolName:     s.schoolName(ctx),
		Folio:          cut.Folio,
		OpenedAt:       cut.OpenedAt.Format("02/01/2006 15:04"),
		OpeningAmount:  cut.OpeningAmount.StringFixed(2),
		TotalCash:      cut.TotalCash.StringFixed(2),
		TotalTransfer:  cut.TotalTransfer.StringFixed(2),
		TotalCard:      cut.TotalCard.StringFixed(2),
		TotalGeneral:   cut.TotalGeneral.StringFixed(2),
		PaymentCount:   cut.PaymentCount,
		ExpectedDrawer: core.ExpectedDrawer().StringFixed(2),
	}
	if cut.ClosedAt != nil {
		ticket.ClosedAt = cut.ClosedAt.Format("02/01/2006 15:04")
	}

	doc := printer.NewDocument(s.width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(ticket.SchoolName).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		Text("CORTE DE CAJA")

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Folio:", ticket.Folio).
		KeyValue("Apertura:", ticket.OpenedAt)
	if ticket.ClosedAt != "" {
		doc.KeyValue("Cierre:", ticket.ClosedAt)
	}

	doc.Separator('-')

	doc.KeyValue("Fondo inicial:", ticket.OpeningAmount).
		KeyValue("Efectivo:", ticket.TotalCash).
		KeyValue("Transferencia:", ticket.TotalTransfer).
		KeyValue("Tarjeta:", ticket.TotalCard)

	doc.Separator('-')

	doc.SetBold(true).
		KeyValue("TOTAL GENERAL:", ticket.TotalGeneral).
		SetBold(false).
		KeyValue("Pagos:", fmt.Sprintf("%d", ticket.PaymentCount)).
		KeyValue("Efectivo en caja:", ticket.ExpectedDrawer)

	doc.FeedLines(3).
		PartialCut()

	if err := s.printer.Print(doc.Bytes()); err != nil {
		log.Printf("Printer error (cash cut %s): %v", cutID, err)
		return ticket, fmt.Errorf("failed to print ticket: %w", err)
	}
	return ticket, nil
}
