// Package notify resolves notification recipients for an alert and
// fans transactional emails out to them, logging every attempt.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shaka3507/amanos/internal/models"
	"github.com/shaka3507/amanos/internal/repositories"
	"github.com/shaka3507/amanos/pkg/metrics"
)

// Result summarizes one fan-out: how many sends succeeded and failed.
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Partial reports whether some recipients were not reached.
func (r Result) Partial() bool {
	return r.Failed > 0
}

type recipient struct {
	name  string
	email string
}

// Notifier fans out alert notifications. Individual send failures are
// logged and counted, never propagated: the triggering write always
// stands.
type Notifier struct {
	users       repositories.UserRepository
	groups      repositories.GroupRepository
	contacts    repositories.ContactRepository
	deliveryLog repositories.DeliveryLogRepository
	sender      Sender
	siteURL     string
}

// NewNotifier creates a Notifier.
func NewNotifier(
	users repositories.UserRepository,
	groups repositories.GroupRepository,
	contacts repositories.ContactRepository,
	deliveryLog repositories.DeliveryLogRepository,
	sender Sender,
	siteURL string,
) *Notifier {
	return &Notifier{
		users:       users,
		groups:      groups,
		contacts:    contacts,
		deliveryLog: deliveryLog,
		sender:      sender,
		siteURL:     siteURL,
	}
}

// NotifyGroupMessage emails every recipient of the alert about a saved
// group message. Recipients are the alert group's members plus the
// creator's emergency contacts, de-duplicated by email. Returns
// ErrNotConfigured (with a zero Result) when the mail provider is not
// set up.
func (n *Notifier) NotifyGroupMessage(ctx context.Context, alert *models.Alert, message *models.AlertMessage, senderName string) (Result, error) {
	recipients, err := n.resolveRecipients(alert)
	if err != nil {
		return Result{}, err
	}

	shortTitle := alert.Title
	if len(shortTitle) > 30 {
		shortTitle = shortTitle[:30] + "..."
	}
	subject := fmt.Sprintf("New message about: %s", shortTitle)
	body := fmt.Sprintf(
		"New message from %s:\n\n%q\n\nThis message is regarding the alert: %s\n\nView the discussion and respond: %s/alerts/%d\n\nYou're receiving this because you're involved with this alert.",
		senderName, message.Content, alert.Title, n.siteURL, alert.ID,
	)

	return n.fanOut(ctx, alert.ID, message.ID, models.DeliveryKindGroupMessage, recipients, subject, body)
}

// NotifyAlertCreated emails the creator's emergency contacts about a
// newly created alert.
func (n *Notifier) NotifyAlertCreated(ctx context.Context, alert *models.Alert, contacts []models.EmergencyContact, senderName string) (Result, error) {
	recipients := make([]recipient, 0, len(contacts))
	for _, c := range contacts {
		recipients = append(recipients, recipient{name: c.Name, email: c.Email})
	}

	subject := fmt.Sprintf("ALERT: %s - Emergency notification from %s", alert.Title, senderName)
	body := fmt.Sprintf(
		"EMERGENCY ALERT\n\n%s\n\n%s\n\nThis alert was sent by %s.\n\nView alert details: %s/alerts/%d\n\nYou're receiving this because you're listed as an emergency contact. Create an account to respond directly: %s/sign-up",
		alert.Title, alert.Description, senderName, n.siteURL, alert.ID, n.siteURL,
	)

	return n.fanOut(ctx, alert.ID, 0, models.DeliveryKindAlert, recipients, subject, body)
}

// NotifyInvitation emails the join link for a pending invitation.
func (n *Notifier) NotifyInvitation(ctx context.Context, invitation *models.AlertInvitation, alertTitle string) error {
	subject := fmt.Sprintf("You've been invited to join a crisis alert: %s", alertTitle)
	body := fmt.Sprintf(
		"You've been invited to join %s on Amanos.\n\nAccept this invitation: %s/join-alert/%s\n\nIf you believe this was sent in error, please disregard this email.",
		alertTitle, n.siteURL, invitation.Token,
	)

	err := n.send(ctx, invitation.AlertID, 0, models.DeliveryKindInvitation, recipient{name: invitation.Name, email: invitation.Email}, subject, body)
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		return err
	}
	return nil
}

// NotifyContactAdded emails a person who was just added as an
// emergency contact.
func (n *Notifier) NotifyContactAdded(ctx context.Context, contact *models.EmergencyContact, senderName string) error {
	subject := fmt.Sprintf("%s, you've been added as an emergency contact on Amanos", contact.Name)
	body := fmt.Sprintf(
		"Hello %s,\n\nYou have been added as an emergency contact by %s on Amanos. In the event of an emergency, you may receive notifications to help coordinate response efforts.\n\nWant to join Amanos yourself? %s/sign-up",
		contact.Name, senderName, n.siteURL,
	)

	err := n.send(ctx, 0, 0, models.DeliveryKindContact, recipient{name: contact.Name, email: contact.Email}, subject, body)
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		return err
	}
	return nil
}

// resolveRecipients gathers group member emails and the creator's
// emergency contacts, de-duplicated case-insensitively by email.
func (n *Notifier) resolveRecipients(alert *models.Alert) ([]recipient, error) {
	members, err := n.groups.GetMembers(alert.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve group members: %w", err)
	}

	seen := make(map[string]bool)
	var recipients []recipient

	for _, m := range members {
		user, err := n.users.GetUserByID(m.UserID)
		if err != nil {
			slog.Warn("Skipping group member with no user row", "user_id", m.UserID, "error", err)
			continue
		}
		key := strings.ToLower(user.Email)
		if user.Email == "" || seen[key] {
			continue
		}
		seen[key] = true
		recipients = append(recipients, recipient{name: user.FullName, email: user.Email})
	}

	contacts, err := n.contacts.GetContactsByOwner(alert.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve emergency contacts: %w", err)
	}
	for _, c := range contacts {
		key := strings.ToLower(c.Email)
		if c.Email == "" || seen[key] {
			continue
		}
		seen[key] = true
		recipients = append(recipients, recipient{name: c.Name, email: c.Email})
	}

	return recipients, nil
}

// fanOut sends one email per recipient, continuing past individual
// failures.
func (n *Notifier) fanOut(ctx context.Context, alertID, messageID uint, kind string, recipients []recipient, subject, body string) (Result, error) {
	var result Result
	for _, rcpt := range recipients {
		err := n.send(ctx, alertID, messageID, kind, rcpt, subject, body)
		if errors.Is(err, ErrNotConfigured) {
			result.Failed += len(recipients) - result.Sent - result.Failed
			return result, ErrNotConfigured
		}
		if err != nil {
			result.Failed++
			continue
		}
		result.Sent++
	}
	return result, nil
}

func (n *Notifier) send(ctx context.Context, alertID, messageID uint, kind string, rcpt recipient, subject, body string) error {
	err := n.sender.Send(ctx, Email{To: rcpt.email, Subject: subject, Body: body})

	entry := &models.DeliveryLogEntry{
		AlertID:   alertID,
		MessageID: messageID,
		Kind:      kind,
		Recipient: rcpt.email,
		Success:   err == nil,
	}
	if err != nil {
		entry.Error = err.Error()
		metrics.EmailsFailed.Inc()
		slog.Error("Failed to send notification email", "kind", kind, "recipient", rcpt.email, "error", err)
	} else {
		metrics.EmailsSent.Inc()
	}

	if n.deliveryLog != nil {
		if logErr := n.deliveryLog.Record(ctx, entry); logErr != nil {
			slog.Error("Failed to record delivery log entry", "kind", kind, "error", logErr)
		}
	}

	return err
}
