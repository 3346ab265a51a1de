package service

import (
	"context"
	"fmt"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/payments"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
	baseURL   string
}

// NewEmailService returns a SendGrid-backed EmailService. baseURL is the
// public site prefix used to build self-service links.
func NewEmailService(apiKey, fromEmail, fromName, baseURL string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   baseURL,
	}
}

func (s *emailService) send(to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) selfServiceLink(booking *domain.Booking) string {
	return fmt.Sprintf("%s/bookings/%s?token=%s", s.baseURL, booking.BookingRef, booking.AccessToken)
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, booking *domain.Booking, trip *domain.Trip) error {
	subject := fmt.Sprintf("Booking %s confirmed - %s", booking.BookingRef, trip.Title)
	link := s.selfServiceLink(booking)
	plainText := fmt.Sprintf(
		"Hello %s,\n\nYour booking %s for %s (%s - %s) is confirmed for %d participant(s).\n\nManage your booking and payments here:\n%s\n\nThank you for travelling with us.",
		booking.ContactName, booking.BookingRef, trip.Title, trip.StartDate, trip.EndDate,
		len(booking.Participants), link)
	htmlContent := fmt.Sprintf(`
		<html><body>
			<h2>Booking confirmed</h2>
			<p>Your booking <strong>%s</strong> for <strong>%s</strong> (%s &ndash; %s) is confirmed for %d participant(s).</p>
			<p><a href="%s">Manage your booking and payments</a></p>
		</body></html>`,
		booking.BookingRef, trip.Title, trip.StartDate, trip.EndDate, len(booking.Participants), link)
	return s.send(booking.ContactEmail, booking.ContactName, subject, plainText, htmlContent)
}

func (s *emailService) SendPaymentReceipt(ctx context.Context, booking *domain.Booking, trip *domain.Trip, amountCents int64) error {
	subject := fmt.Sprintf("Payment received for booking %s", booking.BookingRef)
	value := payments.CentsToValue(amountCents)
	plainText := fmt.Sprintf(
		"Hello %s,\n\nWe have received your payment of %s for booking %s (%s). The booking is now fully paid.\n\nThank you.",
		booking.ContactName, value, booking.BookingRef, trip.Title)
	htmlContent := fmt.Sprintf(`
		<html><body>
			<h2>Payment received</h2>
			<p>We have received your payment of <strong>%s</strong> for booking <strong>%s</strong> (%s).</p>
			<p>The booking is now fully paid.</p>
		</body></html>`,
		value, booking.BookingRef, trip.Title)
	return s.send(booking.ContactEmail, booking.ContactName, subject, plainText, htmlContent)
}

func (s *emailService) SendSecondInstallmentReminder(ctx context.Context, booking *domain.Booking, trip *domain.Trip) error {
	subject := fmt.Sprintf("Second installment due for booking %s", booking.BookingRef)
	value := payments.CentsToValue(booking.SecondPaymentAmountCents)
	link := s.selfServiceLink(booking)
	plainText := fmt.Sprintf(
		"Hello %s,\n\nThe second installment of %s for your booking %s (%s) is still outstanding.\n\nYou can pay online here:\n%s\n\nThank you.",
		booking.ContactName, value, booking.BookingRef, trip.Title, link)
	htmlContent := fmt.Sprintf(`
		<html><body>
			<h2>Second installment due</h2>
			<p>The second installment of <strong>%s</strong> for booking <strong>%s</strong> (%s) is still outstanding.</p>
			<p><a href="%s">Pay online</a></p>
		</body></html>`,
		value, booking.BookingRef, trip.Title, link)
	return s.send(booking.ContactEmail, booking.ContactName, subject, plainText, htmlContent)
}
