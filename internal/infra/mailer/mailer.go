// Package mailer sends transactional mail through SendGrid.
package mailer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"eduplus-app/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrNotConfigured = errors.New("SENDGRID_API_KEY not configured")

// SendInvoiceEmail mails the invoice confirmation, attaching the rendered
// document when a path is given.
func SendInvoiceEmail(toName, toEmail, invoiceNumber, docPath string) error {
	if config.SENDGRID_API_KEY == "" {
		return ErrNotConfigured
	}

	from := mail.NewEmail("EduPlus", config.INVOICE_FROM)
	to := mail.NewEmail(toName, toEmail)
	subject := fmt.Sprintf("Your invoice %s - EduPlus", invoiceNumber)
	body := fmt.Sprintf(
		"Thank you for your purchase!\n\nYour invoice %s is attached. You can also find it in your dashboard.",
		invoiceNumber,
	)

	msg := mail.NewSingleEmail(from, subject, to, body, "")

	if docPath != "" {
		content, err := os.ReadFile(docPath)
		if err != nil {
			return fmt.Errorf("read invoice document: %w", err)
		}
		att := mail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(content))
		att.SetType("text/html")
		att.SetFilename(filepath.Base(docPath))
		att.SetDisposition("attachment")
		msg.AddAttachment(att)
	}

	client := sendgrid.NewSendClient(config.SENDGRID_API_KEY)
	resp, err := client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
