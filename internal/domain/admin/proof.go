package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cinebook/cinebook-gateway/internal/pkg/imaging"
	"github.com/cinebook/cinebook-gateway/internal/pkg/logger"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
	"github.com/cinebook/cinebook-gateway/internal/pkg/storage"
)

// Proof is an image ready to stream to the admin.
type Proof struct {
	Data        []byte
	ContentType string
	Cached      bool
}

// ProofService serves payment proofs and their downscaled previews.
type ProofService struct {
	*Service
	previews  storage.Storage
	processor *imaging.Processor
}

// NewProofService creates proof service. previews may be nil, in which
// case thumbnails are rendered on every request.
func NewProofService(svc *Service, previews storage.Storage, processor *imaging.Processor) *ProofService {
	return &ProofService{Service: svc, previews: previews, processor: processor}
}

func previewKey(bookingID int64) string {
	return fmt.Sprintf("proof-%d.jpg", bookingID)
}

func (p *ProofService) original(ctx context.Context, sess *session.Session, id int64) (*Proof, error) {
	return call(ctx, p.Service, sess, func(token string) (*Proof, error) {
		data, contentType, err := p.api.PaymentProof(ctx, token, id)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, ErrProofNotFound
		}
		return &Proof{Data: data, ContentType: contentType}, nil
	})
}

// Proof returns the uploaded proof of booking id.
func (p *ProofService) Proof(ctx context.Context, sess *session.Session, id int64) (*Proof, error) {
	return p.original(ctx, sess, id)
}

// Thumbnail returns a preview of the proof, from cache when possible. Proofs
// that are not decodable images are returned as uploaded.
func (p *ProofService) Thumbnail(ctx context.Context, sess *session.Session, id int64) (*Proof, error) {
	// the token is checked even when the preview is cached
	if _, err := p.token(ctx, sess); err != nil {
		return nil, err
	}

	key := previewKey(id)
	if cached, ok := p.cached(ctx, key); ok {
		return cached, nil
	}

	full, err := p.original(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	preview, err := p.processor.Preview(bytes.NewReader(full.Data))
	if err != nil {
		logger.LogDebug(ctx, "proof is not a previewable image", "booking_id", id, "error", err.Error())
		return full, nil
	}

	if p.previews != nil {
		if err := p.previews.Put(ctx, key, bytes.NewReader(preview.Data), preview.ContentType); err != nil {
			logger.LogWarn(ctx, "failed to cache proof preview", "booking_id", id, "error", err.Error())
		}
	}
	return &Proof{Data: preview.Data, ContentType: preview.ContentType}, nil
}

func (p *ProofService) cached(ctx context.Context, key string) (*Proof, bool) {
	if p.previews == nil {
		return nil, false
	}
	rc, err := p.previews.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.LogWarn(ctx, "preview cache read failed", "key", key, "error", err.Error())
		}
		return nil, false
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return &Proof{Data: data, ContentType: "image/jpeg", Cached: true}, true
}
