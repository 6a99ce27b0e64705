package services

import (
	"context"

	businessflow "github.com/plakatpro/plakatpro/business_flow"
)

// MailDispatcher builds MIME documents from flow-level messages and hands
// them to the raw sender. It owns the configured sender identity.
type MailDispatcher struct {
	sender     RawEmailSender
	senderAddr string
	senderName string
}

// NewMailDispatcher creates a dispatcher bound to the configured sender address
func NewMailDispatcher(sender RawEmailSender, senderAddr, senderName string) *MailDispatcher {
	return &MailDispatcher{
		sender:     sender,
		senderAddr: senderAddr,
		senderName: senderName,
	}
}

// Send renders and delivers one outbound email
func (d *MailDispatcher) Send(ctx context.Context, email *businessflow.OutboundEmail) (string, error) {
	if d.senderAddr == "" {
		return "", businessflow.NewBusinessError(businessflow.CodeConfiguration,
			"Sender address is not configured", businessflow.ErrSenderNotConfigured)
	}

	msg := &Message{
		From:     d.senderAddr,
		FromName: d.senderName,
		To:       email.To,
		Subject:  email.Subject,
		BodyText: email.BodyText,
		BodyHTML: email.BodyHTML,
	}
	for _, att := range email.Attachments {
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Data:        att.Data,
		})
	}

	raw, err := BuildMIME(msg)
	if err != nil {
		return "", err
	}

	return d.sender.SendRaw(ctx, d.senderAddr, email.To, raw)
}
