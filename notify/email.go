// Package notify sends alert emails for critical reports.
package notify

import (
	"fmt"

	"github.com/apex/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"electionwatch/models"
)

// Notifier delivers alerts about critical reports.
type Notifier interface {
	NotifyCriticalReport(report *models.Report)
}

// EmailNotifier sends alerts via SendGrid to the station's official.
type EmailNotifier struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
	users     officialDirectory
}

type officialDirectory interface {
	OfficialEmail(stationID string) (string, error)
}

// NewEmailNotifier creates a new email notifier.
func NewEmailNotifier(apiKey, fromName, fromEmail string, officials officialDirectory) *EmailNotifier {
	return &EmailNotifier{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
		users:     officials,
	}
}

// NotifyCriticalReport emails the official in charge of the report's
// station. Failures are logged and dropped; notification is best-effort.
func (n *EmailNotifier) NotifyCriticalReport(report *models.Report) {
	if report == nil || report.PollingStation == nil {
		return
	}

	recipient, err := n.users.OfficialEmail(report.PollingStation.ID)
	if err != nil {
		log.Warnf("No official to notify for station %s: %v", report.PollingStation.ID, err)
		return
	}

	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail(recipient, recipient)
	subject := fmt.Sprintf("Critical report at %s", report.PollingStation.Name)

	plainText := fmt.Sprintf(`A critical %s report was filed at %s.

Description:
%s

Reported by: %s
Report id: %s

Please review it in the dashboard.`,
		report.Type, report.PollingStation.Name, report.Description,
		report.Reporter.Name, report.ID)

	htmlContent := fmt.Sprintf(`<p>A critical <strong>%s</strong> report was filed at <strong>%s</strong>.</p>
<p>%s</p>
<p>Reported by: %s<br>Report id: %s</p>`,
		report.Type, report.PollingStation.Name, report.Description,
		report.Reporter.Name, report.ID)

	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	response, err := n.client.Send(message)
	if err != nil {
		log.Errorf("Failed to send critical report email: %v", err)
		return
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		log.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
}

// Disabled is a Notifier that drops every alert. Used when no SendGrid
// key is configured.
type Disabled struct{}

func (Disabled) NotifyCriticalReport(*models.Report) {}
