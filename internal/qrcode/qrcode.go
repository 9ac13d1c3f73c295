// Package qrcode encodes, decodes and validates the token that binds a
// physical table to a session request. The token is a menu URL carrying
// type, table id, table number and an epoch-millisecond timestamp as query
// parameters. Validation is purely syntactic and temporal; resolving the
// table id against storage is the caller's job.
package qrcode

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"time"

	qr "github.com/skip2/go-qrcode"
)

const payloadType = "table"

type Payload struct {
	Type        string
	TableID     int64
	TableNumber string
	Timestamp   time.Time
}

// Codec renders and checks table tokens. MaxAge of zero disables the expiry
// check.
type Codec struct {
	BaseURL string
	MaxAge  time.Duration
}

func NewCodec(baseURL string, maxAge time.Duration) *Codec {
	return &Codec{BaseURL: baseURL, MaxAge: maxAge}
}

// Encode builds the token string and renders it as a PNG. The second return
// value is a data URL suitable for direct embedding in an <img> tag.
func (c *Codec) Encode(tableID int64, tableNumber string) (string, string, error) {
	q := url.Values{}
	q.Set("type", payloadType)
	q.Set("id", strconv.FormatInt(tableID, 10))
	q.Set("number", tableNumber)
	q.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	token := fmt.Sprintf("%s/menu/?%s", c.BaseURL, q.Encode())

	image, err := c.Render(token)
	if err != nil {
		return "", "", err
	}
	return token, image, nil
}

// Render draws an existing token as a PNG data URL, byte for byte the token
// it is given. Re-encoding a stored token would stamp a fresh timestamp and
// the image would no longer match the persisted string.
func (c *Codec) Render(token string) (string, error) {
	png, err := qr.Encode(token, qr.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Decode parses a token back into its payload. It fails when the token is
// not a URL or the timestamp is not numeric; missing fields are left to
// Validate.
func (c *Codec) Decode(token string) (Payload, error) {
	u, err := url.Parse(token)
	if err != nil {
		return Payload{}, fmt.Errorf("malformed QR token: %w", err)
	}

	q := u.Query()
	p := Payload{
		Type:        q.Get("type"),
		TableNumber: q.Get("number"),
	}

	if idStr := q.Get("id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return Payload{}, fmt.Errorf("malformed QR token: invalid table id %q", idStr)
		}
		p.TableID = id
	}

	if tsStr := q.Get("timestamp"); tsStr != "" {
		ms, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			return Payload{}, fmt.Errorf("malformed QR token: invalid timestamp %q", tsStr)
		}
		p.Timestamp = time.UnixMilli(ms)
	}

	return p, nil
}

// Validate decodes the token and checks shape and age. The returned reason
// is user facing; it is empty when the token is accepted.
func (c *Codec) Validate(token string) (Payload, string) {
	p, err := c.Decode(token)
	if err != nil {
		return Payload{}, "QR code invalide"
	}

	if p.Type != payloadType || p.TableID == 0 || p.TableNumber == "" {
		return Payload{}, "QR code invalide"
	}

	if c.MaxAge > 0 {
		if p.Timestamp.IsZero() || time.Since(p.Timestamp) > c.MaxAge {
			return Payload{}, "QR code expiré"
		}
	}

	return p, ""
}
