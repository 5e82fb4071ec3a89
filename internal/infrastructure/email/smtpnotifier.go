package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPNotifier delivers subscription lifecycle emails over SMTP.
type SMTPNotifier struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPNotifier(config SMTPConfig) *SMTPNotifier {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPNotifier{
		config: config,
		dialer: dialer,
	}
}

func (s *SMTPNotifier) SendExpiryReminder(ctx context.Context, to, name, planName string, endDate time.Time, daysLeft int, autoRenew bool) error {
	var subject string
	if daysLeft == 1 {
		subject = fmt.Sprintf("Your %s subscription expires tomorrow", planName)
	} else {
		subject = fmt.Sprintf("Your %s subscription expires in %d days", planName, daysLeft)
	}

	var action string
	if autoRenew {
		action = "Your subscription will renew automatically. No action is needed."
	} else {
		action = "Renew now to keep your plan benefits without interruption."
	}

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Subscription Expiring Soon</h2>
			<p>Hi %s,</p>
			<p>Your <strong>%s</strong> subscription ends on %s.</p>
			<p>%s</p>
		</body>
		</html>
	`, name, planName, endDate.Format("January 2, 2006"), action)

	plainBody := fmt.Sprintf(`
Hi %s,

Your %s subscription ends on %s.

%s
	`, name, planName, endDate.Format("January 2, 2006"), action)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPNotifier) SendSubscriptionExpired(ctx context.Context, to, name, planName string, endDate time.Time) error {
	subject := fmt.Sprintf("Your %s subscription has expired", planName)

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Subscription Expired</h2>
			<p>Hi %s,</p>
			<p>Your <strong>%s</strong> subscription ended on %s. Your account has moved to the free plan.</p>
			<p>Resubscribe any time to restore your plan benefits.</p>
		</body>
		</html>
	`, name, planName, endDate.Format("January 2, 2006"))

	plainBody := fmt.Sprintf(`
Hi %s,

Your %s subscription ended on %s. Your account has moved to the free plan.

Resubscribe any time to restore your plan benefits.
	`, name, planName, endDate.Format("January 2, 2006"))

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPNotifier) SendSubscriptionRenewed(ctx context.Context, to, name, planName string, newEndDate time.Time) error {
	subject := fmt.Sprintf("Your %s subscription has been renewed", planName)

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Subscription Renewed</h2>
			<p>Hi %s,</p>
			<p>Your <strong>%s</strong> subscription has been renewed and now runs through %s.</p>
			<p>Thanks for staying with us.</p>
		</body>
		</html>
	`, name, planName, newEndDate.Format("January 2, 2006"))

	plainBody := fmt.Sprintf(`
Hi %s,

Your %s subscription has been renewed and now runs through %s.

Thanks for staying with us.
	`, name, planName, newEndDate.Format("January 2, 2006"))

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPNotifier) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromAddress, s.config.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
