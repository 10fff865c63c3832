package alert

import (
	"fmt"
	"strings"
	"time"

	"statuspulse/internals/modules/incident"
	"statuspulse/internals/modules/monitor"
	"statuspulse/internals/security"
	"statuspulse/pkg/mailer"
)

const unsubscribePath = "/api/unsubscribe"

// Composer renders incident mail for one recipient.
type Composer struct {
	baseURL string
	salt    string
}

func NewComposer(baseURL, salt string) *Composer {
	return &Composer{baseURL: baseURL, salt: salt}
}

func (c *Composer) Compose(e incident.Event, to string) mailer.Message {
	kind := "Service Outage"
	if e.Incident.Type == monitor.CategoryDegraded {
		kind = "Performance Degradation"
	}

	created := e.Incident.Created.UTC().Format(time.DateTime) + " UTC"

	var subject, body string
	switch e.Lifecycle {
	case incident.Opened:
		subject = fmt.Sprintf("Incident: %s On %s", kind, e.MonitorName)
		body = fmt.Sprintf("An incident for our service %s has been created at %s:\n\n%s\n\nFor more information, please check the status page at %s\n\n",
			e.MonitorName, created, plainText(e.Incident.Message), c.baseURL)
	default:
		subject = fmt.Sprintf("Resolved: %s On %s", kind, e.MonitorName)
		body = fmt.Sprintf("The incident for %s, created at %s has been resolved.\n\nFor more information, please check the status page at %s\n\n",
			e.MonitorName, created, c.baseURL)
	}

	body += "\n\nYou can unsubscribe from these notifications at any time by clicking on the following link, or pasting this into your browser:\n\n" +
		security.SubscriptionLink(c.baseURL, unsubscribePath, to, c.salt) + "\n"

	return mailer.Message{To: to, Subject: subject, Body: body}
}

// plainText turns the html line breaks of incident messages into newlines.
func plainText(s string) string {
	return strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n").Replace(s)
}
