package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"storefront/internal/domain"
)

// SMTPSender delivers order confirmations over plain SMTP.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPSender(addr, user, pass, from string) *SMTPSender {
	host := addr
	if i := strings.IndexByte(addr, ':'); i >= 0 {
		host = addr[:i]
	}
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &SMTPSender{addr: addr, auth: auth, from: from}
}

func (s *SMTPSender) OrderConfirmation(_ context.Context, to string, order domain.Order) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: Order %s confirmed\r\n", order.Number)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Thanks for your order %s.\r\n\r\n", order.Number)
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "  %dx %s", line.Quantity, line.ProductName)
		if line.Size != "" {
			fmt.Fprintf(&b, " (size %s)", line.Size)
		}
		fmt.Fprintf(&b, " - %s\r\n", formatCents(line.UnitPriceCents*int64(line.Quantity), order.Currency))
	}
	fmt.Fprintf(&b, "\r\nTotal: %s\r\n", formatCents(order.TotalCents, order.Currency))

	return smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(b.String()))
}

func formatCents(cents int64, currency string) string {
	return fmt.Sprintf("%s %d.%02d", currency, cents/100, cents%100)
}
