package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	businessflow "github.com/plakatpro/plakatpro/business_flow"
)

func TestMailDispatcher(t *testing.T) {
	t.Run("SenderNotConfigured", func(t *testing.T) {
		d := NewMailDispatcher(NewRecordingSender(), "", "PlakatPro")

		_, err := d.Send(context.Background(), &businessflow.OutboundEmail{
			To:       []string{"kunde@example.de"},
			Subject:  "Angebot",
			BodyText: "x",
		})

		require.Error(t, err)
		assert.True(t, businessflow.IsSenderNotConfigured(err))
	})

	t.Run("DeliversBuiltMessage", func(t *testing.T) {
		sender := NewRecordingSender()
		d := NewMailDispatcher(sender, "info@plakatpro.de", "PlakatPro")

		id, err := d.Send(context.Background(), &businessflow.OutboundEmail{
			To:       []string{"ordnungsamt@aachen.example.de"},
			Subject:  "Antrag",
			BodyText: "Sehr geehrte Damen und Herren",
			Attachments: []businessflow.EmailAttachment{
				{Filename: "antrag.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
			},
		})

		require.NoError(t, err)
		assert.NotEmpty(t, id)
		require.Len(t, sender.Sent, 1)
		assert.Equal(t, "info@plakatpro.de", sender.Sent[0].From)
		assert.Equal(t, []string{"ordnungsamt@aachen.example.de"}, sender.Sent[0].To)
		assert.True(t, strings.Contains(string(sender.Sent[0].Raw), `filename="antrag.pdf"`))
	})
}
