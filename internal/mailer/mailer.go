package mailer

import (
	"fmt"

	"github.com/rskdev/pettycash-be/internal/config"
	mail "github.com/wneessen/go-mail"
)

// ProfileChanges summarizes a proposed profile edit for the confirmation email.
type ProfileChanges struct {
	Name   string
	Mobile string
	Avatar string
	Email  string
}

// Mailer sends the transactional emails for account flows. Sends are
// best-effort: callers commit their data mutation first and only log a
// failed dispatch.
type Mailer interface {
	SendSignupOTP(to, name, otp string) error
	SendEmailVerified(to, name string) error
	SendPasswordResetOTP(to, name, otp string) error
	SendPasswordChanged(to, name string) error
	SendProfileUpdateOTP(to, name, otp string, changes ProfileChanges) error
	SendProfileUpdated(to, name string) error
}

// SMTPMailer delivers mail over SMTP using the injected credentials.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a mailer from SMTP configuration.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSend(msg)
}

// SendSignupOTP emails the email-verification code issued at signup.
func (m *SMTPMailer) SendSignupOTP(to, name, otp string) error {
	body := fmt.Sprintf(`
		<h2>Pettycash Manager</h2>
		<h4><b>Dear %s,</b></h4>
		<p>Welcome to our family,</p>
		<p>Your Email Verification OTP is: <b>%s</b></p>`, name, otp)
	return m.send(to, "Pettycash Manager - Signup Email Verification OTP", body)
}

// SendEmailVerified confirms a successful email verification.
func (m *SMTPMailer) SendEmailVerified(to, name string) error {
	body := fmt.Sprintf(`
		<h2>Pettycash Manager</h2>
		<h4>Dear <b>%s,</b></h4>
		<p>Your email has been successfully verified.</p>`, name)
	return m.send(to, "Pettycash Manager - Email Verified", body)
}

// SendPasswordResetOTP emails the password-reset code.
func (m *SMTPMailer) SendPasswordResetOTP(to, name, otp string) error {
	body := fmt.Sprintf(`
		<h4>Hello %s,</h4>
		<p>Below is your OTP to reset the password for your account:</p>
		<b>%s</b>`, name, otp)
	return m.send(to, "Pettycash Manager - Password Reset OTP", body)
}

// SendPasswordChanged confirms a completed password reset. The new password
// is deliberately not included in the body.
func (m *SMTPMailer) SendPasswordChanged(to, name string) error {
	body := fmt.Sprintf(`
		<h4>Dear %s,</h4>
		<p>As per your request, your <b>password has been changed successfully.</b></p>
		<p>If this wasn't you, reset your password immediately.</p>`, name)
	return m.send(to, "Pettycash Manager - Password Change Confirmation", body)
}

// SendProfileUpdateOTP emails the profile-edit code to the proposed new
// address together with a summary of the requested changes.
func (m *SMTPMailer) SendProfileUpdateOTP(to, name, otp string, changes ProfileChanges) error {
	body := fmt.Sprintf(`
		<h2>Pettycash Manager</h2>
		<h4>Dear %s,</h4>
		<p>You requested the following profile changes:</p>
		<ul>
			<li>Name: %s</li>
			<li>Mobile: %s</li>
			<li>Avatar: %s</li>
			<li>Email: %s</li>
		</ul>
		<p>Your confirmation OTP is: <b>%s</b></p>`,
		name, changes.Name, changes.Mobile, changes.Avatar, changes.Email, otp)
	return m.send(to, "Pettycash Manager - Profile Update OTP", body)
}

// SendProfileUpdated confirms a completed profile edit to the new address.
func (m *SMTPMailer) SendProfileUpdated(to, name string) error {
	body := fmt.Sprintf(`
		<h2>Pettycash Manager</h2>
		<h4>Dear %s,</h4>
		<p>Your profile has been updated successfully.</p>`, name)
	return m.send(to, "Pettycash Manager - Profile Updated", body)
}
