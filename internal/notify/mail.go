package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

type sendFunc func(ctx context.Context, from string, to []string, msg []byte) error

// Mailer sends plain-text order emails over SMTP. Messages without a
// recipient are skipped.
type Mailer struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	send sendFunc
}

func NewMailer(host string, port int, user, password, from string) *Mailer {
	m := &Mailer{Host: host, Port: port, User: user, Password: password, From: from}
	m.send = m.dial
	return m
}

func (m *Mailer) Notify(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return nil
	}
	body := composeEmail(m.From, msg)
	if err := m.send(ctx, m.From, []string{msg.To}, body); err != nil {
		return fmt.Errorf("mail to %s: %w", msg.To, err)
	}
	return nil
}

func (m *Mailer) dial(ctx context.Context, from string, to []string, body []byte) error {
	addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	c, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return err
		}
	}
	if m.User != "" {
		if err := c.Auth(smtp.PlainAuth("", m.User, m.Password, m.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func subjectFor(msg Message) string {
	if msg.Audience == AudienceAdmin {
		return fmt.Sprintf("New order received #%s", msg.OrderID)
	}
	return fmt.Sprintf("Order confirmation #%s", msg.OrderID)
}

func composeEmail(from string, msg Message) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", subjectFor(msg))
	fmt.Fprintf(&b, "Date: %s\r\n", msg.PlacedAt.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")

	if msg.Audience == AudienceAdmin {
		fmt.Fprintf(&b, "A new order was placed by %s.\r\n\r\n", msg.CustomerEmail)
	} else {
		b.WriteString("Thank you for your order.\r\n\r\n")
	}

	fmt.Fprintf(&b, "Order: %s\r\n", msg.OrderID)
	for _, it := range msg.Items {
		line := it.ProductName
		if it.Size != "" || it.Color != "" {
			line += fmt.Sprintf(" (%s)", strings.Trim(it.Size+" / "+it.Color, " /"))
		}
		fmt.Fprintf(&b, "  %s x%d  %s\r\n", line, it.Quantity, it.UnitPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "\r\nSubtotal: %s\r\n", msg.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Shipping: %s\r\n", msg.Shipping.StringFixed(2))
	fmt.Fprintf(&b, "Total: %s\r\n\r\n", msg.Total.StringFixed(2))
	fmt.Fprintf(&b, "Ship to: %s\r\n", msg.ShippingAddress)
	fmt.Fprintf(&b, "Phone: %s\r\n", msg.Phone)

	return []byte(b.String())
}
