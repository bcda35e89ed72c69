package activity

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/taskhive-dev/taskhive/internal/models"
)

// MailNotifier delivers per-user mail. The notification-preference flag is
// honored here, not by callers.
type MailNotifier struct {
	Addr string // host:port of the SMTP relay
	From string
}

func NewMailNotifier(addr, from string) *MailNotifier {
	return &MailNotifier{Addr: addr, From: from}
}

func (n *MailNotifier) Notify(users []models.User, header, text string) {
	for _, user := range users {
		if !user.NotificationsEnabled {
			continue
		}

		msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
			n.From, user.Email, header, text)

		if err := smtp.SendMail(n.Addr, nil, n.From, []string{user.Email}, []byte(msg)); err != nil {
			log.Printf("notify: failed to mail %s: %v", user.Email, err)
		}
	}
}

// LogNotifier is the default sink when no SMTP relay is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(users []models.User, header, text string) {
	for _, user := range users {
		if !user.NotificationsEnabled {
			continue
		}
		log.Printf("notify: [%s] to %s: %s", header, user.Email, text)
	}
}
