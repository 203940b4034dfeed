package notifier

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
	"time"

	"auction-management-api/internal/entity"

	log "github.com/sirupsen/logrus"
)

const (
	defaultSMTPHost = "smtp.gmail.com"
	defaultSMTPPort = "587"
)

// EmailNotifier mails the winner of a finalized auction. In simulation mode
// nothing leaves the process: the delivery is logged and reported successful,
// which keeps development and test runs free of SMTP traffic.
type EmailNotifier struct {
	host       string
	port       string
	username   string
	password   string
	production bool
}

// NewEmailNotifier builds a notifier with explicit settings.
func NewEmailNotifier(host, port, username, password string, production bool) *EmailNotifier {
	return &EmailNotifier{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		production: production,
	}
}

// NewEmailNotifierFromEnv resolves the delivery mode from the environment:
// EMAIL_MODE=PRODUCTION or EMAIL_MODE=TEST wins, otherwise the presence of
// credentials decides.
func NewEmailNotifierFromEnv() *EmailNotifier {
	host := envOr("EMAIL_HOST", defaultSMTPHost)
	port := envOr("EMAIL_PORT", defaultSMTPPort)
	username := os.Getenv("EMAIL_USERNAME")
	password := os.Getenv("EMAIL_PASSWORD")

	var production bool
	switch strings.ToUpper(os.Getenv("EMAIL_MODE")) {
	case "PRODUCTION":
		production = true
	case "TEST":
		production = false
	default:
		production = username != "" && password != ""
	}

	n := NewEmailNotifier(host, port, username, password, production)

	mode := "simulation"
	if production {
		mode = "production"
	}
	log.WithFields(log.Fields{"mode": mode, "host": host, "port": port}).Info("email notifier configured")

	return n
}

// NewSimulatedEmailNotifier always simulates delivery.
func NewSimulatedEmailNotifier() *EmailNotifier {
	return NewEmailNotifier(defaultSMTPHost, defaultSMTPPort, "", "", false)
}

func (n *EmailNotifier) NotifyWinner(auction *entity.Auction, winner *entity.Participant, winningAmount float64) bool {
	subject := fmt.Sprintf("Congratulations! You won the auction: %s", auction.Name)
	body := n.winnerBody(auction, winner, winningAmount)

	if !n.production {
		log.WithFields(log.Fields{
			"to":      winner.Email,
			"subject": subject,
			"auction": auction.Id.String(),
		}).Info("email delivery simulated")

		return true
	}

	message := strings.Join([]string{
		"From: " + n.username,
		"To: " + winner.Email,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", n.username, n.password, n.host)
	addr := n.host + ":" + n.port

	if err := smtp.SendMail(addr, auth, n.username, []string{winner.Email}, []byte(message)); err != nil {
		log.WithFields(log.Fields{"to": winner.Email, "auction": auction.Id.String()}).
			WithError(err).Error("winner email failed")

		return false
	}

	return true
}

func (n *EmailNotifier) winnerBody(auction *entity.Auction, winner *entity.Participant, winningAmount float64) string {
	const timeLayout = "02/01/2006 15:04"

	return fmt.Sprintf(
		"Hello, %s!\n\n"+
			"Your bid of %.2f was the highest in the auction %q.\n\n"+
			"Auction start: %s\n"+
			"Auction end:   %s\n"+
			"Minimum bid:   %.2f\n\n"+
			"Our team will contact you shortly to complete the purchase.\n"+
			"Please keep this message as proof of your winning bid.\n\n"+
			"Auction id: %s | Participant: %s\n"+
			"Sent automatically on %s\n",
		winner.Name,
		winningAmount,
		auction.Name,
		auction.StartTime.Format(timeLayout),
		auction.EndTime.Format(timeLayout),
		auction.MinimumBid,
		auction.Id.String(),
		winner.IdentityNumber,
		time.Now().Format(timeLayout),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
