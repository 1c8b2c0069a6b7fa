package ticket

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// PDFRenderer writes one PDF ticket per confirmed order into a directory.
type PDFRenderer struct {
	dir    string
	logger *slog.Logger
}

func NewPDFRenderer(dir string, logger *slog.Logger) *PDFRenderer {
	return &PDFRenderer{dir: dir, logger: logger}
}

// FileName returns "{pnr}_{orderId}.pdf" with unsafe characters replaced.
func FileName(order *domain.ConfirmedOrder) string {
	pnr := order.PNR()
	if pnr == "" {
		pnr = "NOPNR"
	}
	id := order.OrderID
	if id == "" {
		id = order.ID
	}
	return unsafeFilenameChars.ReplaceAllString(pnr+"_"+id, "_") + ".pdf"
}

// Render builds the ticket and returns the path it was written to.
func (r *PDFRenderer) Render(ctx context.Context, order *domain.ConfirmedOrder) (string, error) {
	if order == nil {
		return "", errors.New("no order to render")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(order.Travelers) == 0 {
		return "", errors.New("order has no travelers")
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create ticket dir: %w", err)
	}

	pdf, err := r.build(order)
	if err != nil {
		return "", err
	}

	path := filepath.Join(r.dir, FileName(order))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write ticket: %w", err)
	}

	r.logger.Info("ticket rendered", "order_id", order.OrderID, "path", path)
	return path, nil
}

func (r *PDFRenderer) build(order *domain.ConfirmedOrder) (*fpdf.Fpdf, error) {
	offer := order.Offer()
	itineraries, err := offer.Itineraries()
	if err != nil {
		return nil, err
	}
	price, err := offer.Price()
	if err != nil {
		return nil, err
	}
	traveler := order.Travelers[0]

	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; runes outside it print as '.'.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("E-Ticket "+order.PNR(), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Flight E-Ticket", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	field(pdf, tr, "Booking ID", order.ID)
	field(pdf, tr, "PNR", order.PNR())
	field(pdf, tr, "Trip", offer.TripType())
	field(pdf, tr, "Passenger", traveler.Name.FirstName+" "+traveler.Name.LastName)
	if len(order.Travelers) > 1 {
		field(pdf, tr, "Party size", fmt.Sprintf("%d travelers", len(order.Travelers)))
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	for _, h := range []struct {
		title string
		width float64
	}{{"Flight", 30}, {"From", 25}, {"Departs", 50}, {"To", 25}, {"Arrives", 50}} {
		pdf.CellFormat(h.width, 8, h.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, itinerary := range itineraries {
		for _, seg := range itinerary.Segments {
			pdf.CellFormat(30, 7, tr(seg.CarrierCode+" "+seg.Number), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 7, tr(seg.Departure.IATACode), "1", 0, "C", false, 0, "")
			pdf.CellFormat(50, 7, tr(seg.Departure.At), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 7, tr(seg.Arrival.IATACode), "1", 0, "C", false, 0, "")
			pdf.CellFormat(50, 7, tr(seg.Arrival.At), "1", 1, "C", false, 0, "")
		}
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	field(pdf, tr, "Total", price.GrandTotal+" "+price.Currency)

	png, err := qrcode.Encode(order.PNR()+"|"+order.ID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	pdf.RegisterImageOptionsReader("booking-qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions("booking-qr", 150, 15, 40, 40, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout ticket: %w", err)
	}
	return pdf, nil
}

func field(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.CellFormat(35, 7, label+":", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(value), "", 1, "L", false, 0, "")
}
