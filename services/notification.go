package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"

	"splitledger-backend/config"
	"splitledger-backend/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// NotificationService sends expense emails through SendGrid. With no API
// key configured it degrades to a no-op so local development needs no
// SendGrid account.
type NotificationService struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	ns := &NotificationService{
		from: mail.NewEmail(cfg.AppName, cfg.SendGridFrom),
	}
	if cfg.SendGridAPIKey != "" {
		ns.client = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}
	return ns
}

// NotifyExpenseAdded emails every participant except the owner their share
// of a new expense. Called from a goroutine; failures are logged only.
func (ns *NotificationService) NotifyExpenseAdded(expense models.Expense, splits []models.ExpenseSplit, owner models.User, participants []models.User) {
	byID := make(map[string]models.User, len(participants))
	for _, u := range participants {
		byID[u.ID.String()] = u
	}

	for _, split := range splits {
		if split.UserID == expense.UserID {
			continue // Don't notify the payer
		}
		user, ok := byID[split.UserID.String()]
		if !ok {
			continue
		}

		subject := fmt.Sprintf("%s added \"%s\"", owner.Name, expense.Description)
		body := buildExpenseEmailHTML(owner.Name, user.Name, expense.Description, expense.Amount, split.AmountOwed)
		ns.send(user.Email, user.Name, subject, body)
	}
}

func (ns *NotificationService) send(toEmail, toName, subject, htmlBody string) {
	if ns.client == nil {
		slog.Debug("sendgrid not configured, skipping email", "to", toEmail)
		return
	}

	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(ns.from, subject, to, "", htmlBody)
	resp, err := ns.client.Send(message)
	if err != nil {
		slog.Error("email send failed", "to", toEmail, "err", err)
		return
	}
	if resp.StatusCode >= 300 {
		slog.Warn("sendgrid rejected email", "to", toEmail, "status", resp.StatusCode)
		return
	}
	slog.Info("email sent", "to", toEmail)
}

var expenseEmailTmpl = template.Must(template.New("expense").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: white; border-radius: 12px; padding: 32px; border: 1px solid #eee;">
		<h2 style="color: #1DB954; margin-top: 0;">New Expense Added</h2>
		<p>Hi <strong>{{.UserName}}</strong>,</p>
		<p><strong>{{.OwnerName}}</strong> added a new expense:</p>
		<div style="background: #f8f9fa; border-radius: 8px; padding: 16px; margin: 16px 0;">
			<p style="margin: 4px 0; font-size: 18px;"><strong>{{.Description}}</strong></p>
			<p style="margin: 4px 0; color: #666;">Total: {{printf "%.2f" .TotalAmount}}</p>
			<p style="margin: 4px 0; color: #e53e3e; font-size: 18px;"><strong>Your share: {{printf "%.2f" .OwedAmount}}</strong></p>
		</div>
	</div>
</body>
</html>`))

func buildExpenseEmailHTML(ownerName, userName, description string, totalAmount, owedAmount float64) string {
	var buf bytes.Buffer
	err := expenseEmailTmpl.Execute(&buf, map[string]interface{}{
		"OwnerName":   ownerName,
		"UserName":    userName,
		"Description": description,
		"TotalAmount": totalAmount,
		"OwedAmount":  owedAmount,
	})
	if err != nil {
		slog.Error("email template failed", "err", err)
		return ""
	}
	return buf.String()
}
