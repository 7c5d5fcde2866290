// Package share converts tile lists to and from shareable tokens.
//
// Two formats exist. The current one is an 8 character code that keys a
// payload in a ShareStore. The legacy one carries the whole list inline and
// must keep decoding for links already in the wild.
package share

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tilewx/backend/internal/logging"
	"github.com/tilewx/backend/internal/models"
)

// CodeLength is the length of generated share codes.
const CodeLength = 8

// Store is the persistence the codec needs. storage.ShareStore satisfies it.
type Store interface {
	Put(ctx context.Context, code string, locations []models.SharedLocation) error
	Get(ctx context.Context, code string) ([]models.SharedLocation, error)
}

// Codec encodes lists into short codes and decodes either token format.
type Codec struct {
	store   Store
	newCode func() string
	log     *logrus.Entry
}

// NewCodec creates a codec backed by store.
func NewCodec(store Store, logger *logrus.Logger) *Codec {
	return &Codec{
		store:   store,
		newCode: NewCode,
		log:     logging.Component(logger, "share"),
	}
}

// NewCode returns the first CodeLength hex characters of a random UUID.
func NewCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:CodeLength]
}

// Encode stores the place data of entries under a fresh code. IDs and
// countries are not shared. Collisions are not checked ahead of the write;
// a store that rejects the code fails the call like any other write error.
func (c *Codec) Encode(ctx context.Context, entries []models.LocationEntry) (string, error) {
	payload := make([]models.SharedLocation, len(entries))
	for i, e := range entries {
		payload[i] = e.ToShared()
	}

	code := c.newCode()
	if err := c.store.Put(ctx, code, payload); err != nil {
		c.log.WithError(err).WithField("code", code).Warn("share write failed")
		return "", &CreateFailedError{Cause: err}
	}

	c.log.WithFields(logrus.Fields{"code": code, "locations": len(payload)}).Info("share created")
	return code, nil
}

// Decode restores a list from either token format. Unknown codes, store
// errors and malformed legacy tokens all yield an empty list.
func (c *Codec) Decode(ctx context.Context, token string) []models.LocationEntry {
	switch Classify(token) {
	case TokenShortCode:
		return c.load(ctx, token)
	default:
		entries := DecodeLegacy(token)
		if len(entries) == 0 && token != "" {
			c.log.WithField("token_len", len(token)).Debug("legacy token yielded no locations")
		}
		return entries
	}
}

func (c *Codec) load(ctx context.Context, code string) []models.LocationEntry {
	payload, err := c.store.Get(ctx, code)
	if err != nil {
		c.log.WithError(err).WithField("code", code).Debug("share lookup failed")
		return []models.LocationEntry{}
	}

	entries := make([]models.LocationEntry, 0, len(payload))
	for _, row := range payload {
		entries = append(entries, row.ToEntry())
	}
	return entries
}
