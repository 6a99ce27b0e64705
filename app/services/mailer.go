package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"log"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attachment is a file carried by an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a fully specified outgoing email. BodyText is mandatory;
// BodyHTML, when present, is offered as an alternative part.
type Message struct {
	From        string
	FromName    string
	To          []string
	Subject     string
	BodyText    string
	BodyHTML    string
	Attachments []Attachment
}

// RawEmailSender delivers a pre-built RFC 5322 message. Implementations
// return the provider's message ID when the relay reports one.
type RawEmailSender interface {
	SendRaw(ctx context.Context, from string, to []string, raw []byte) (messageID string, err error)
}

// BuildMIME renders the message as a multipart/mixed MIME document:
// an alternative part for text and HTML bodies, then one base64 part
// per attachment.
func BuildMIME(msg *Message) ([]byte, error) {
	if msg.From == "" {
		return nil, fmt.Errorf("message has no sender")
	}
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("message has no recipients")
	}

	var buf bytes.Buffer

	mixedBoundary := "mixed-" + uuid.New().String()
	altBoundary := "alt-" + uuid.New().String()

	from := msg.From
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", msg.FromName), msg.From)
	}

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", mixedBoundary)
	fmt.Fprintf(&buf, "\r\n")

	// Body: text, optionally alternated with HTML
	fmt.Fprintf(&buf, "--%s\r\n", mixedBoundary)
	if msg.BodyHTML != "" {
		fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", altBoundary)

		fmt.Fprintf(&buf, "--%s\r\n", altBoundary)
		writeTextPart(&buf, "text/plain; charset=utf-8", msg.BodyText)

		fmt.Fprintf(&buf, "--%s\r\n", altBoundary)
		writeTextPart(&buf, "text/html; charset=utf-8", msg.BodyHTML)

		fmt.Fprintf(&buf, "--%s--\r\n", altBoundary)
	} else {
		writeTextPart(&buf, "text/plain; charset=utf-8", msg.BodyText)
	}

	for _, att := range msg.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		fmt.Fprintf(&buf, "--%s\r\n", mixedBoundary)
		fmt.Fprintf(&buf, "Content-Type: %s\r\n", contentType)
		fmt.Fprintf(&buf, "Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n", att.Filename)
		fmt.Fprintf(&buf, "\r\n")
		writeBase64(&buf, att.Data)
		fmt.Fprintf(&buf, "\r\n")
	}

	fmt.Fprintf(&buf, "--%s--\r\n", mixedBoundary)

	return buf.Bytes(), nil
}

func writeTextPart(buf *bytes.Buffer, contentType, body string) {
	fmt.Fprintf(buf, "Content-Type: %s\r\n", contentType)
	fmt.Fprintf(buf, "Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(buf, "\r\n")
	writeBase64(buf, []byte(body))
	fmt.Fprintf(buf, "\r\n")
}

// writeBase64 encodes data wrapped at 76 columns as RFC 2045 requires
func writeBase64(buf *bytes.Buffer, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76])
		buf.WriteString("\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded)
}

// SMTPSender delivers raw messages through an SMTP relay.
type SMTPSender struct {
	host        string
	port        int
	username    string
	password    string
	useSTARTTLS bool
	timeout     time.Duration
}

// NewSMTPSender creates an SMTP-backed raw sender
func NewSMTPSender(host string, port int, username, password string, useSTARTTLS bool, timeout time.Duration) *SMTPSender {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SMTPSender{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		useSTARTTLS: useSTARTTLS,
		timeout:     timeout,
	}
}

// SendRaw submits the message to the relay. The returned message ID is
// locally generated; plain SMTP relays do not echo one back.
func (s *SMTPSender) SendRaw(ctx context.Context, from string, to []string, raw []byte) (string, error) {
	if s.host == "" {
		return "", fmt.Errorf("SMTP host not configured")
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return "", fmt.Errorf("failed to connect to SMTP relay: %w", err)
	}
	defer client.Close()

	if s.useSTARTTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return "", fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	if s.username != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := client.Auth(auth); err != nil {
			return "", fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return "", fmt.Errorf("MAIL FROM rejected: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return "", fmt.Errorf("RCPT TO %s rejected: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return "", fmt.Errorf("DATA rejected: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return "", fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish message: %w", err)
	}

	if err := client.Quit(); err != nil {
		return "", fmt.Errorf("QUIT failed: %w", err)
	}

	return uuid.New().String(), nil
}

// RecordedMessage is one message captured by the recording sender.
type RecordedMessage struct {
	From string
	To   []string
	Raw  []byte
}

// RecordingSender captures messages instead of delivering them. It stands
// in for the relay in tests and local development.
type RecordingSender struct {
	Sent    []RecordedMessage
	FailFor map[string]error // recipient -> error
}

// NewRecordingSender creates a recording sender
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{FailFor: make(map[string]error)}
}

// SendRaw records the message and returns a generated message ID
func (s *RecordingSender) SendRaw(ctx context.Context, from string, to []string, raw []byte) (string, error) {
	for _, rcpt := range to {
		if err, ok := s.FailFor[rcpt]; ok {
			return "", err
		}
	}

	s.Sent = append(s.Sent, RecordedMessage{From: from, To: to, Raw: raw})
	log.Printf("Recorded email from %s to %v (%d bytes)", from, to, len(raw))
	return uuid.New().String(), nil
}
