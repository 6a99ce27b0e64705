package services

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMIME(t *testing.T) {
	t.Run("TextWithAttachment", func(t *testing.T) {
		msg := &Message{
			From:     "info@plakatpro.de",
			FromName: "PlakatPro",
			To:       []string{"ordnungsamt@aachen.example.de"},
			Subject:  "Antrag auf Plakatiergenehmigung",
			BodyText: "Sehr geehrte Damen und Herren,\n\nanbei unser Antrag.",
			Attachments: []Attachment{
				{Filename: "plakat.jpg", ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF, 0xE0}},
			},
		}

		raw, err := BuildMIME(msg)
		require.NoError(t, err)

		parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
		require.NoError(t, err)

		assert.Contains(t, parsed.Header.Get("From"), "info@plakatpro.de")
		assert.Equal(t, "ordnungsamt@aachen.example.de", parsed.Header.Get("To"))

		mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/mixed", mediaType)

		mr := multipart.NewReader(parsed.Body, params["boundary"])

		body, err := mr.NextPart()
		require.NoError(t, err)
		assert.Contains(t, body.Header.Get("Content-Type"), "text/plain")

		att, err := mr.NextPart()
		require.NoError(t, err)
		assert.Contains(t, att.Header.Get("Content-Disposition"), `filename="plakat.jpg"`)
		assert.Equal(t, "image/jpeg", att.Header.Get("Content-Type"))

		_, err = mr.NextPart()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("HTMLAlternative", func(t *testing.T) {
		msg := &Message{
			From:     "info@plakatpro.de",
			To:       []string{"kunde@example.de"},
			Subject:  "Ihr Angebot",
			BodyText: "Angebot im Anhang.",
			BodyHTML: "<p>Angebot im Anhang.</p>",
		}

		raw, err := BuildMIME(msg)
		require.NoError(t, err)

		parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
		require.NoError(t, err)

		_, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
		require.NoError(t, err)

		mr := multipart.NewReader(parsed.Body, params["boundary"])
		part, err := mr.NextPart()
		require.NoError(t, err)
		assert.Contains(t, part.Header.Get("Content-Type"), "multipart/alternative")
	})

	t.Run("SubjectEncoded", func(t *testing.T) {
		msg := &Message{
			From:     "info@plakatpro.de",
			To:       []string{"kunde@example.de"},
			Subject:  "Schützenfest Düsseldorf",
			BodyText: "x",
		}

		raw, err := BuildMIME(msg)
		require.NoError(t, err)

		parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
		require.NoError(t, err)

		dec := new(mime.WordDecoder)
		subject, err := dec.DecodeHeader(parsed.Header.Get("Subject"))
		require.NoError(t, err)
		assert.Equal(t, "Schützenfest Düsseldorf", subject)
	})

	t.Run("NoRecipients", func(t *testing.T) {
		_, err := BuildMIME(&Message{From: "info@plakatpro.de", BodyText: "x"})
		assert.Error(t, err)
	})

	t.Run("NoSender", func(t *testing.T) {
		_, err := BuildMIME(&Message{To: []string{"a@example.de"}, BodyText: "x"})
		assert.Error(t, err)
	})
}

func TestRecordingSender(t *testing.T) {
	sender := NewRecordingSender()

	id, err := sender.SendRaw(context.Background(), "info@plakatpro.de", []string{"a@example.de"}, []byte("msg"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, sender.Sent, 1)
	assert.Equal(t, []string{"a@example.de"}, sender.Sent[0].To)

	sender.FailFor["b@example.de"] = errors.New("mailbox full")
	_, err = sender.SendRaw(context.Background(), "info@plakatpro.de", []string{"b@example.de"}, []byte("msg"))
	assert.Error(t, err)
	assert.Len(t, sender.Sent, 1, "failed sends are not recorded")
}
