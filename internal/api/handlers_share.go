// handlers_share.go - Share creation and loading handlers
package api

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/tilewx/backend/internal/logging"
	"github.com/tilewx/backend/internal/models"
	"github.com/tilewx/backend/internal/share"
	"github.com/tilewx/backend/internal/tiles"
	"github.com/vmihailenco/msgpack/v5"
)

// ShareHandlerImpl implements the ShareHandler interface
type ShareHandlerImpl struct {
	codec     ShareCodec
	publicURL string
	log       *logrus.Entry
}

// NewShareHandler creates a new share handler. publicURL is the base of the
// links returned to clients; when empty only the token is returned.
func NewShareHandler(codec ShareCodec, publicURL string, logger *logrus.Logger) ShareHandler {
	return &ShareHandlerImpl{
		codec:     codec,
		publicURL: publicURL,
		log:       logging.Component(logger, "api.share"),
	}
}

type createShareRequest struct {
	Locations []models.LocationEntry `json:"locations"`
}

type createShareResponse struct {
	Code string `json:"code"`
	URL  string `json:"url,omitempty"`
}

type legacyLinkResponse struct {
	Token string `json:"token"`
	URL   string `json:"url,omitempty"`
}

type loadShareResponse struct {
	Kind      string                 `json:"kind"`
	Locations []models.LocationEntry `json:"locations"`
}

// HandleCreateShare stores the posted list and returns its short code
func (h *ShareHandlerImpl) HandleCreateShare(c echo.Context) error {
	entries, err := h.bindLocations(c)
	if err != nil {
		return err
	}

	code, err := h.codec.Encode(c.Request().Context(), entries)
	if err != nil {
		var createErr *share.CreateFailedError
		if errors.As(err, &createErr) {
			return NewUpstreamError("SHARE_CREATE_FAILED", "failed to store share", createErr.Cause)
		}
		return NewInternalError("failed to create share", err)
	}

	link, err := h.link(code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createShareResponse{Code: code, URL: link})
}

// HandleCreateLegacyLink returns the inline token for the posted list. Nothing is stored.
func (h *ShareHandlerImpl) HandleCreateLegacyLink(c echo.Context) error {
	entries, err := h.bindLocations(c)
	if err != nil {
		return err
	}

	token := share.EncodeLegacy(entries)
	link, err := h.link(token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, legacyLinkResponse{Token: token, URL: link})
}

// HandleLoadShare decodes ?s= in either format. Unknown or malformed tokens
// give an empty list, never an error.
func (h *ShareHandlerImpl) HandleLoadShare(c echo.Context) error {
	resp, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleLoadShareMsgpack is HandleLoadShare with a msgpack body
func (h *ShareHandlerImpl) HandleLoadShareMsgpack(c echo.Context) error {
	resp, err := h.load(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(resp); err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", buf.Bytes())
}

func (h *ShareHandlerImpl) load(c echo.Context) (*loadShareResponse, error) {
	token := c.QueryParam(tiles.ShareParam)
	if token == "" {
		return nil, NewValidationError(tiles.ShareParam)
	}

	locations := h.codec.Decode(c.Request().Context(), token)
	kind := share.Classify(token)
	h.log.WithFields(logrus.Fields{"kind": kind.String(), "locations": len(locations)}).Debug("share loaded")

	return &loadShareResponse{Kind: kind.String(), Locations: locations}, nil
}

func (h *ShareHandlerImpl) bindLocations(c echo.Context) ([]models.LocationEntry, error) {
	var req createShareRequest
	if err := c.Bind(&req); err != nil {
		return nil, NewBadRequestError("invalid request body", err)
	}
	if len(req.Locations) == 0 {
		return nil, NewValidationError("locations")
	}

	for i := range req.Locations {
		loc := &req.Locations[i]
		if !validCoordinate(loc.Latitude, 90) {
			return nil, NewValidationError(fmt.Sprintf("locations[%d].latitude", i))
		}
		if !validCoordinate(loc.Longitude, 180) {
			return nil, NewValidationError(fmt.Sprintf("locations[%d].longitude", i))
		}
		if loc.Timezone == "" {
			loc.Timezone = models.TimezoneAuto
		}
	}
	return req.Locations, nil
}

func (h *ShareHandlerImpl) link(token string) (string, error) {
	if h.publicURL == "" {
		return "", nil
	}
	link, err := tiles.ShareURL(h.publicURL, token)
	if err != nil {
		return "", NewInternalError("failed to build share link", err)
	}
	return link, nil
}

func validCoordinate(v, limit float64) bool {
	return !math.IsNaN(v) && v >= -limit && v <= limit
}
