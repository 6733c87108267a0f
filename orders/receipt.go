package orders

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"brouette/db"
	"brouette/globals"
	"brouette/models"
	"brouette/utils"
)

// ReceiptPayload builds the signed string encoded in the pickup QR so
// the desk can verify a receipt offline.
func ReceiptPayload(orderID, memberID string, at time.Time) string {
	data := fmt.Sprintf("%s|%s|%d", orderID, memberID, at.Unix())
	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyReceiptPayload checks the signature on a scanned QR payload
// and returns the order id it covers.
func VerifyReceiptPayload(payload string) (string, bool) {
	idx := bytes.LastIndexByte([]byte(payload), '|')
	if idx < 0 {
		return "", false
	}
	data, sig := payload[:idx], payload[idx+1:]

	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	want := base64.StdEncoding.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(want)) {
		return "", false
	}

	end := bytes.IndexByte([]byte(data), '|')
	if end < 0 {
		return "", false
	}
	return data[:end], true
}

// PrintReceipt renders an order as a PDF pickup receipt with a signed
// QR code for the distribution desk.
func PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var order models.Order
	err := db.OrdersCollection.FindOne(r.Context(),
		bson.M{"orderId": ps.ByName("orderId")}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch order")
		return
	}
	if order.MemberID != utils.GetUserIDFromRequest(r) && !utils.IsAdmin(r) {
		utils.RespondWithError(w, http.StatusForbidden, "not your order")
		return
	}

	items, err := loadItems(r, order.OrderID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch order")
		return
	}

	qrPNG, err := qrcode.Encode(ReceiptPayload(order.OrderID, order.MemberID, order.CreatedAt),
		qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Bon de retrait")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Commande : %s", order.OrderID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Date : %s", order.CreatedAt.Format("02/01/2006 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(90, 7, "Produit")
	pdf.Cell(25, 7, "Qte")
	pdf.Cell(30, 7, "Retrait")
	pdf.Cell(30, 7, "Total")
	pdf.Ln(7)

	pdf.SetFont("Arial", "", 11)
	for _, item := range items {
		label := item.Label
		if item.VariantLabel != "" {
			label += " (" + item.VariantLabel + ")"
		}
		pdf.Cell(90, 7, label)
		pdf.Cell(25, 7, fmt.Sprintf("%d", item.Quantity))
		pdf.Cell(30, 7, item.SaleDateLabel)
		pdf.Cell(30, 7, fmt.Sprintf("%.2f EUR", item.LineTotal))
		pdf.Ln(7)
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total : %.2f EUR", order.Totals.TotalAmount))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=recu-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
