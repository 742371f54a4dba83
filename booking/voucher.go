package booking

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"tourguide/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const dataURIPrefix = "data:image/png;base64,"

// voucherPayload is the content scanned at the attraction entrance.
type voucherPayload struct {
	BookingID          string  `json:"bookingId"`
	AttractionName     string  `json:"attractionName"`
	AttractionLocation string  `json:"attractionLocation"`
	VisitDate          string  `json:"visitDate"`
	NumberOfVisitors   int     `json:"numberOfVisitors"`
	TotalPrice         float64 `json:"totalPrice"`
}

// EncodeVoucher renders the payload as a QR PNG and returns it as a data URI.
// The same payload always yields the same image.
func EncodeVoucher(p voucherPayload, size int) (string, error) {
	content, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	png, err := qrcode.Encode(string(content), qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}

func decodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return nil, fmt.Errorf("qr code is not a png data uri")
	}
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, dataURIPrefix))
}

// VoucherPDF renders a printable A4 voucher with the stored QR image.
func VoucherPDF(b *models.Booking) ([]byte, error) {
	qrPNG, err := decodeDataURI(b.QRCode)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 15, "Entry Voucher", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 8, fmt.Sprintf(
		"Attraction: %s\nLocation: %s\nVisit date: %s\nVisitors: %d\nTotal price: %.2f\nStatus: %s\nBooking ID: %s\nBooked on: %s",
		b.AttractionName,
		b.AttractionLocation,
		b.VisitDate.Format("02 Jan 2006"),
		b.NumberOfVisitors,
		b.TotalPrice,
		b.Status,
		b.BookingID,
		b.BookingDate.Format("02 Jan 2006 15:04"),
	), "", "L", false)

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 140, 45, 50, 50, false, imgOpts, 0, "")

	pdf.SetY(-30)
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 10, "Show this voucher at the entrance.", "T", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render voucher pdf: %w", err)
	}
	return buf.Bytes(), nil
}
