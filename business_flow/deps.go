package businessflow

import (
	"context"
	"io"

	"github.com/plakatpro/plakatpro/models"
)

// EmailAttachment is a file carried by an outbound email.
type EmailAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// OutboundEmail is a message the flows hand to the dispatcher. The sender
// address is the dispatcher's concern, not the flow's.
type OutboundEmail struct {
	To          []string
	Subject     string
	BodyText    string
	BodyHTML    string
	Attachments []EmailAttachment
}

// EmailDispatcher delivers outbound emails and returns a provider message ID.
type EmailDispatcher interface {
	Send(ctx context.Context, email *OutboundEmail) (messageID string, err error)
}

// QuoteRenderer renders a distribution list quote into downloadable documents.
type QuoteRenderer interface {
	BuildPDF(list *models.DistributionList, items []*models.DistributionListItem, costs QuoteCosts) ([]byte, error)
	BuildHTML(list *models.DistributionList, items []*models.DistributionListItem, costs QuoteCosts) ([]byte, error)
	BuildXLSX(list *models.DistributionList, items []*models.DistributionListItem, costs QuoteCosts) ([]byte, error)
	Filename(list *models.DistributionList, ext string) string
}

// ObjectStore reads and writes stored binaries by opaque key.
type ObjectStore interface {
	Put(ctx context.Context, kind string, ext string, r io.Reader) (key string, size int64, err error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// DocumentCache caches rendered export documents so unchanged lists are not
// re-rendered on every download.
type DocumentCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, doc []byte) error
}

// ImageScaler produces JPEG previews of poster images.
type ImageScaler interface {
	Thumbnail(src []byte, maxWidth int) ([]byte, error)
}
