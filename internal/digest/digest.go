// Package digest frames packed signature bits behind a one byte header and
// encodes them as short base58 codes.
package digest

import (
	"errors"
	"fmt"

	"github.com/glycerine/base58"
)

// ErrInvalidCode is returned for codes that do not decode to a known header
// followed by a body.
var ErrInvalidCode = errors.New("invalid code")

// Header tells what kind of content a digest was computed from.
type Header byte

const (
	HeadContentText        Header = 0x10
	HeadContentTextPartial Header = 0x11
	HeadContentData        Header = 0x20
)

func (h Header) String() string {
	switch h {
	case HeadContentText:
		return "text"
	case HeadContentTextPartial:
		return "text-partial"
	case HeadContentData:
		return "data"
	}
	return fmt.Sprintf("Header(%#02x)", byte(h))
}

func (h Header) valid() bool {
	return h == HeadContentText || h == HeadContentTextPartial || h == HeadContentData
}

// Compose returns the header byte followed by body.
func Compose(h Header, body []byte) []byte {
	out := make([]byte, 0, 1+len(body))
	out = append(out, byte(h))
	return append(out, body...)
}

// Encode returns the base58 code of the composed digest.
func Encode(h Header, body []byte) string {
	return base58.Encode(Compose(h, body))
}

// Decode splits a code back into its header and body.
func Decode(code string) (Header, []byte, error) {
	if code == "" {
		return 0, nil, fmt.Errorf("%w: empty", ErrInvalidCode)
	}
	raw := base58.Decode(code)
	if len(raw) < 2 {
		return 0, nil, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	h := Header(raw[0])
	if !h.valid() {
		return 0, nil, fmt.Errorf("%w: unknown header %v", ErrInvalidCode, h)
	}
	return h, raw[1:], nil
}
