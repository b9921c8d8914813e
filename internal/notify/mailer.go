package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/currencydesk/currency-orders/internal/models"
)

// The discount lines keep their historical "(not applied)" label even though
// the total does subtract the discount; operators rely on the wording.
const orderPlacedHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>New Order Placed</title>
</head>
<body style="font-family: Arial, sans-serif; color: #111;">
    <h2>New Order Placed</h2>

    <p><strong>Order ID:</strong> {{.OrderID}}</p>
    <p><strong>User ID:</strong> {{.UserID}}</p>
    <p><strong>Date:</strong> {{.Date}}</p>

    <hr>

    <p><strong>Foreign Currency:</strong> {{.ForeignCurrency}}</p>
    <p><strong>Foreign Amount:</strong> {{.ForeignAmount}}</p>
    <p><strong>Exchange Rate:</strong> {{.ExchangeRate}}</p>

    <p><strong>Originating Currency:</strong> {{.OriginatingCurrency}}</p>
    <p><strong>Originating Amount:</strong> {{.OriginatingAmount}}</p>

    <p><strong>Surcharge %:</strong> {{.SurchargePercentage}}%</p>
    <p><strong>Surcharge Amount:</strong> {{.SurchargeAmount}}</p>

    <p><strong>Special Discount % (not applied):</strong> {{.SpecialDiscountPercentage}}%</p>
    <p><strong>Special Discount Amount (not applied):</strong> {{.SpecialDiscountAmount}}</p>

    <p><strong>Total Amount:</strong> {{.TotalAmount}}</p>

    <hr>
    <p style="font-size: 12px; color: #555;">This is an automated message.</p>
</body>
</html>`

var orderPlacedTemplate = template.Must(template.New("order_placed").Parse(orderPlacedHTML))

// Mailer sends the order-placed mail over SMTP.
type Mailer struct {
	host string
	port int
	from string
	to   string
}

func NewMailer(host string, port int, from, to string) *Mailer {
	return &Mailer{host: host, port: port, from: from, to: to}
}

func (m *Mailer) OrderPlaced(ctx context.Context, order *models.Order, currency *models.Currency) error {
	code := "N/A"
	if currency != nil {
		code = currency.Code
	}

	body, err := RenderOrderPlaced(order, code)
	if err != nil {
		return fmt.Errorf("render order mail: %w", err)
	}

	subject := fmt.Sprintf("New Order Placed - %s #%s", code, order.ID)
	msg := buildMessage(m.from, m.to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, nil, m.from, []string{m.to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send order mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send order mail: %w", ctx.Err())
	case <-time.After(10 * time.Second):
		return fmt.Errorf("send order mail: timed out")
	}
}

// RenderOrderPlaced renders the notification body for an order.
func RenderOrderPlaced(order *models.Order, currencyCode string) (string, error) {
	data := struct {
		OrderID                   string
		UserID                    string
		Date                      string
		ForeignCurrency           string
		ForeignAmount             string
		ExchangeRate              string
		OriginatingCurrency       string
		OriginatingAmount         string
		SurchargePercentage       string
		SurchargeAmount           string
		SpecialDiscountPercentage string
		SpecialDiscountAmount     string
		TotalAmount               string
	}{
		OrderID:                   order.ID.String(),
		UserID:                    order.UserID.String(),
		Date:                      order.CreatedAt.Format("2006-01-02 15:04:05"),
		ForeignCurrency:           currencyCode,
		ForeignAmount:             order.ForeignAmount.StringFixed(2),
		ExchangeRate:              order.ExchangeRate.StringFixed(6),
		OriginatingCurrency:       order.OriginatingCurrency,
		OriginatingAmount:         order.OriginatingAmount.StringFixed(2),
		SurchargePercentage:       order.SurchargePercentage.StringFixed(2),
		SurchargeAmount:           order.SurchargeAmount.StringFixed(2),
		SpecialDiscountPercentage: order.SpecialDiscountPercentage.StringFixed(2),
		SpecialDiscountAmount:     order.SpecialDiscountAmount.StringFixed(2),
		TotalAmount:               order.TotalAmount.StringFixed(2),
	}

	var buf bytes.Buffer
	if err := orderPlacedTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(htmlBody)
	return buf.Bytes()
}
