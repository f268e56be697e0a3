package monitor

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"
)

// SMTPAlerter emails health alerts. With no user or recipient configured it
// logs a warning and drops alerts instead of failing the monitor.
type SMTPAlerter struct {
	host     string
	port     int
	user     string
	password string
	from     string
	to       string
	logger   *slog.Logger
}

func NewSMTPAlerter(host string, port int, user, password, from, to string, logger *slog.Logger) *SMTPAlerter {
	if from == "" {
		from = user
	}
	return &SMTPAlerter{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		to:       to,
		logger:   logger,
	}
}

// Enabled reports whether the alerter has enough configuration to send.
func (a *SMTPAlerter) Enabled() bool {
	return a.user != "" && a.to != ""
}

func (a *SMTPAlerter) ServiceDown(svc Service, at time.Time) error {
	subject := fmt.Sprintf("SMS Bridge Alert: %s is DOWN", svc.Name)
	body := strings.Join([]string{
		"SERVICE DOWN ALERT",
		"",
		"Service: " + svc.Name,
		"Status: UNREACHABLE",
		"Time: " + at.Format("2006-01-02 15:04:05"),
		probeInfo(svc),
		"",
		"Action Required:",
		"1. Check service logs: docker-compose logs " + svc.ID,
		"2. Restart service: docker-compose restart " + svc.ID,
		"3. Check docker status: docker ps",
		"",
		"This is an automated alert from the SMS Bridge monitoring system.",
	}, "\r\n")
	return a.send(subject, body)
}

func (a *SMTPAlerter) ServiceRecovered(svc Service, at time.Time) error {
	subject := fmt.Sprintf("SMS Bridge: %s RECOVERED", svc.Name)
	body := strings.Join([]string{
		"SERVICE RECOVERY",
		"",
		"Service: " + svc.Name,
		"Status: HEALTHY",
		"Time: " + at.Format("2006-01-02 15:04:05"),
		probeInfo(svc),
		"",
		"The service is now responding normally.",
		"",
		"This is an automated alert from the SMS Bridge monitoring system.",
	}, "\r\n")
	return a.send(subject, body)
}

func (a *SMTPAlerter) send(subject, body string) error {
	if !a.Enabled() {
		a.logger.Warn("smtp not configured, skipping email alert", "subject", subject)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + a.from,
		"To: " + a.to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if a.password != "" {
		auth = smtp.PlainAuth("", a.user, a.password, a.host)
	}

	addr := fmt.Sprintf("%s:%d", a.host, a.port)
	if err := a.sendMail(addr, auth, []byte(msg)); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}

	a.logger.Info("alert email sent", "subject", subject)
	return nil
}

// sendMail upgrades to TLS via STARTTLS when the server offers it, which is
// what smtp.SendMail does on port 587.
func (a *SMTPAlerter) sendMail(addr string, auth smtp.Auth, msg []byte) error {
	return smtp.SendMail(addr, auth, a.from, []string{a.to}, msg)
}

func probeInfo(svc Service) string {
	switch svc.Kind {
	case ProbeHTTP:
		return "Health URL: " + svc.URL
	case ProbeTCP:
		return "TCP Port: " + svc.Addr
	default:
		return "Check type: unknown"
	}
}
