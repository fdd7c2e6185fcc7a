// Package invoicedoc renders the durable invoice document. HTML on disk for
// now; the template keeps the layout in one place if a PDF pipeline replaces
// it later.
package invoicedoc

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"eduplus-app/config"
	"eduplus-app/internal/domain/billing"
)

var docTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Invoice {{.Invoice.InvoiceNumber}}</title></head>
<body>
  <h1>EduPlus — Invoice {{.Invoice.InvoiceNumber}}</h1>
  <p>Billed to: {{.Invoice.BillingName}}</p>
  <p>Date: {{.Date}}</p>
  <p>Reference: {{.Payment.ReferenceID}}</p>
  {{if .CourseTitle}}<p>Course: {{.CourseTitle}}</p>{{end}}
  <table>
    <tr><td>Subtotal</td><td>{{printf "%.2f" .Invoice.Subtotal}} {{.Payment.Currency}}</td></tr>
    <tr><td>Discount</td><td>-{{printf "%.2f" .Invoice.DiscountAmount}} {{.Payment.Currency}}</td></tr>
    <tr><td>Tax</td><td>{{printf "%.2f" .Invoice.TaxAmount}} {{.Payment.Currency}}</td></tr>
    <tr><td><strong>Total</strong></td><td><strong>{{printf "%.2f" .Invoice.Total}} {{.Payment.Currency}}</strong></td></tr>
  </table>
</body>
</html>
`))

type docContext struct {
	Invoice     billing.Invoice
	Payment     billing.Payment
	CourseTitle string
	Date        string
}

// Render writes the invoice document and returns its path.
func Render(inv billing.Invoice, payment billing.Payment, courseTitle string) (string, error) {
	dir := config.INVOICE_DIR
	if dir == "" {
		dir = "invoices"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("invoice dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("invoice_%s.html", inv.InvoiceNumber))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create invoice document: %w", err)
	}
	defer f.Close()

	ctx := docContext{
		Invoice:     inv,
		Payment:     payment,
		CourseTitle: courseTitle,
		Date:        time.Now().Format("02/01/2006"),
	}
	if err := docTemplate.Execute(f, ctx); err != nil {
		return "", fmt.Errorf("render invoice document: %w", err)
	}
	return path, nil
}
