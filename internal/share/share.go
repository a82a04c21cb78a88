// Package share builds the outbound share link and its QR code.
package share

import (
	"fmt"
	"image"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ComposeEndpoint is the messaging service compose endpoint.
const ComposeEndpoint = "https://wa.me/"

// Message is the fixed text shared by the recipient.
const Message = "🎁 ¡He recibido un regalo increíble de los Reyes Magos! Un día de spa inolvidable. ✨👑"

// BuildShareLink percent-encodes msg into the compose link.
func BuildShareLink(msg string) string {
	return ComposeEndpoint + "?text=" + EncodeComponent(msg)
}

// componentMarks are left unescaped by browser component encoding but escaped
// by url.QueryEscape.
var componentMarks = strings.NewReplacer(
	"+", "%20", // QueryEscape already turns '+' into %2B, so every '+' left is a space
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s for use as a single query value. Only
// letters, digits and -_.!~*'() stay literal.
func EncodeComponent(s string) string {
	return componentMarks.Replace(url.QueryEscape(s))
}

// MessageFrom extracts the shared message back out of a link.
func MessageFrom(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parsing share link: %w", err)
	}
	return u.Query().Get("text"), nil
}

// QRCode renders link as a square QR code image of size pixels.
func QRCode(link string, size int) (image.Image, error) {
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encoding QR code: %w", err)
	}
	return q.Image(size), nil
}

// QRCodePNG renders link as PNG bytes.
func QRCodePNG(link string, size int) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding QR code: %w", err)
	}
	return png, nil
}
