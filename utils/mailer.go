package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

// InvitationMailer delivers team invitation emails over SMTP
type InvitationMailer struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	AppURL    string
}

type invitationEmailData struct {
	Subject   string
	TeamName  string
	Role      string
	AcceptURL string
	Year      int
}

var invitationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .button { display: inline-block; background: #3498db; color: #fff; padding: 10px 20px; border-radius: 4px; text-decoration: none; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>You have been invited to {{.TeamName}}</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>You have been invited to join the team <strong>{{.TeamName}}</strong> as <strong>{{.Role}}</strong>.</p>
        <p><a class="button" href="{{.AcceptURL}}">Accept invitation</a></p>
        <p>If the button does not work, open this link: {{.AcceptURL}}</p>
    </div>

    <div class="footer">
        <p>If you were not expecting this invitation, you can safely ignore this email.</p>
        <p>© {{.Year}} Teamboard. All rights reserved.</p>
    </div>
</body>
</html>`

func NewInvitationMailer(host, port, username, password, fromEmail, appURL string) *InvitationMailer {
	portNum, err := strconv.Atoi(port)
	if err != nil {
		portNum = 587
	}
	return &InvitationMailer{
		Host:      host,
		Port:      portNum,
		Username:  username,
		Password:  password,
		FromEmail: fromEmail,
		FromName:  "Teamboard",
		AppURL:    appURL,
	}
}

// Send delivers an invitation mail with the accept link for token
func (m *InvitationMailer) Send(to, teamName, role, token string) error {
	data := invitationEmailData{
		Subject:   fmt.Sprintf("Invitation to join %s", teamName),
		TeamName:  teamName,
		Role:      role,
		AcceptURL: fmt.Sprintf("%s/invitations/accept?token=%s", m.AppURL, token),
		Year:      time.Now().Year(),
	}

	tmpl, err := template.New("invitation").Parse(invitationTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse invitation template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render invitation template: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.FromEmail, m.FromName))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", data.Subject)
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}

	return nil
}
