package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

var couponTemplate = template.Must(template.ParseFS(templatesFS, "templates/coupon.html"))

const defaultSendTimeout = 15 * time.Second

func NewEmailSender(host string, port int, user, password, from string, timeout time.Duration) *EmailSender {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		Timeout:  timeout,
	}
}

// DispatchCoupon delivers the coupon over SMTP and returns once the server
// has accepted the message, the timeout elapses or ctx is done. gomail has
// no context support, so a stalled exchange is abandoned rather than
// interrupted; its goroutine ends when the server drops the connection.
func (s *EmailSender) DispatchCoupon(ctx context.Context, msg CouponEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	body, err := renderCoupon(msg)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", fmt.Sprintf("%s, your discount code is here", msg.Name))
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send coupon email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send coupon email: %w", ctx.Err())
	}
}

func renderCoupon(msg CouponEmail) (string, error) {
	var body bytes.Buffer
	if err := couponTemplate.Execute(&body, msg); err != nil {
		return "", fmt.Errorf("failed to render coupon email: %w", err)
	}
	return body.String(), nil
}
