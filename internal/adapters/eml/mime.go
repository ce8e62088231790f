package eml

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// charsetReader lets the MIME machinery decode non-UTF-8 charsets through
// the x/text encoding index.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(input), nil
}

var headerDecoder = mime.WordDecoder{CharsetReader: charsetReader}

// decodeHeaderValue decodes RFC 2047 encoded words; on failure the raw value
// is kept.
func decodeHeaderValue(value string) string {
	decoded, err := headerDecoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// extractTextFromMessage extracts the human-readable text of a message. For
// multipart messages it concatenates the text/plain parts; for everything
// else it returns the decoded body.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return decodePart(textproto.MIMEHeader(msg.Header), msg.Body)
	}

	boundary, ok := params["boundary"]
	if !ok {
		return decodePart(textproto.MIMEHeader(msg.Header), msg.Body)
	}

	mr := multipart.NewReader(msg.Body, boundary)
	var textContent bytes.Buffer

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep what we already collected from earlier parts.
			break
		}

		partType := strings.ToLower(part.Header.Get("Content-Type"))
		if strings.Contains(partType, "text/plain") {
			text, err := decodePart(part.Header, part)
			if err != nil {
				continue
			}
			textContent.WriteString(text)
			textContent.WriteString("\n")
		}
		// Attachments, html alternatives and nested multiparts are skipped.
	}

	if textContent.Len() > 0 {
		return textContent.String(), nil
	}
	return "", nil
}

// decodePart reads one body or MIME part, honoring its transfer encoding and
// charset.
func decodePart(header textproto.MIMEHeader, body io.Reader) (string, error) {
	switch strings.ToLower(strings.TrimSpace(header.Get("Content-Transfer-Encoding"))) {
	case "quoted-printable":
		body = quotedprintable.NewReader(body)
	case "base64":
		body = base64.NewDecoder(base64.StdEncoding, body)
	}

	if _, params, err := mime.ParseMediaType(header.Get("Content-Type")); err == nil {
		if charset, ok := params["charset"]; ok && !strings.EqualFold(charset, "utf-8") {
			if decoded, err := charsetReader(charset, body); err == nil {
				body = decoded
			}
		}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
