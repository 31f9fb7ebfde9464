package email

import (
	"fmt"
	"time"
)

// Templates for the auth flows. Text and HTML variants are kept together so
// callers build a Message in one call.

func WelcomeMessage(to, firstName string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to Goalsaver!",
		Text: fmt.Sprintf("Hi %s,\n\nWelcome to Goalsaver! Start saving with your community today.\n\nBest regards,\nThe Goalsaver Team",
			firstName),
		HTML: fmt.Sprintf("<h2>Hi %s,</h2><p>Welcome to Goalsaver! Start saving with your community today.</p><p>Best regards,<br>The Goalsaver Team</p>",
			firstName),
	}
}

func VerificationCodeMessage(to, code string, expiresAt time.Time) Message {
	minutes := int(time.Until(expiresAt).Round(time.Minute).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return Message{
		To:      to,
		Subject: "Verify Your Email",
		Text: fmt.Sprintf("Your verification code is %s.\nIt expires in %d minutes.\n\nBest regards,\nThe Goalsaver Team",
			code, minutes),
		HTML: fmt.Sprintf("<h2>Verify your email</h2><p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p><p>Best regards,<br>The Goalsaver Team</p>",
			code, minutes),
	}
}

func PasswordResetMessage(to, code string, expiresAt time.Time) Message {
	minutes := int(time.Until(expiresAt).Round(time.Minute).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return Message{
		To:      to,
		Subject: "Reset Your Password",
		Text: fmt.Sprintf("Your password reset code is %s.\nIt expires in %d minutes.\nIf you did not request this, you can ignore this email.\n\nBest regards,\nThe Goalsaver Team",
			code, minutes),
		HTML: fmt.Sprintf("<h2>Reset your password</h2><p>Your password reset code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p><p>If you did not request this, you can ignore this email.</p><p>Best regards,<br>The Goalsaver Team</p>",
			code, minutes),
	}
}

func NewLoginMessage(to, firstName, device, loginTime string) Message {
	return Message{
		To:      to,
		Subject: "New Login Detected",
		Text: fmt.Sprintf("Hi %s,\n\nA new login was detected on your account from %s at %s. If this wasn't you, please reset your password.\n\nBest regards,\nThe Goalsaver Team",
			firstName, device, loginTime),
		HTML: fmt.Sprintf("<h2>Hi %s,</h2><p>A new login was detected on your account from %s at %s.</p><p>If this wasn't you, please reset your password.</p><p>Best regards,<br>The Goalsaver Team</p>",
			firstName, device, loginTime),
	}
}
