package port

// Mailer delivers transactional email. Delivery is synchronous; a failed
// send is reported to the caller as ErrEmailSend.
type Mailer interface {
	Send(to, subject, body string) error
}
