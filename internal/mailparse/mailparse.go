// Package mailparse turns RFC 5322 messages into the analysis-facing email
// shape. Multipart messages contribute their text/plain parts only;
// attachments and nested multiparts are skipped.
package mailparse

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/mikey/llm-email-analyzer/internal/core"
)

// NoTextPlaceholder stands in for the body of a multipart message with no
// text parts, so downstream analysis still has something to classify.
const NoTextPlaceholder = "[No text content found in multipart message]"

// Parse reads a raw message and builds the email record used by analysis.
func Parse(r io.Reader) (*core.Email, error) {
	msg, err := mail.ReadMessage(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	body, err := extractText(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text content: %w", err)
	}

	return &core.Email{
		Subject:   DecodeHeader(msg.Header.Get("Subject")),
		Body:      body,
		Sender:    msg.Header.Get("From"),
		Recipient: msg.Header.Get("To"),
	}, nil
}

// ParseBytes parses an in-memory raw message.
func ParseBytes(data []byte) (*core.Email, error) {
	return Parse(bytes.NewReader(data))
}

// DecodeHeader decodes RFC 2047 encoded-words in a header value. Values that
// fail to decode are returned unchanged.
func DecodeHeader(value string) string {
	decoder := mime.WordDecoder{}
	decoded, err := decoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// extractText extracts the text content from a parsed message. Non-multipart
// bodies are returned whole; multipart bodies contribute each text/plain
// part, decoded per its transfer encoding.
func extractText(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return readBody(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	}

	boundary, ok := params["boundary"]
	if !ok {
		return readBody(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	}

	mr := multipart.NewReader(msg.Body, boundary)

	var textContent bytes.Buffer
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep whatever text was collected before the malformed part.
			if textContent.Len() > 0 {
				return textContent.String(), nil
			}
			return "", err
		}

		partType := strings.ToLower(part.Header.Get("Content-Type"))
		if !strings.Contains(partType, "text/plain") {
			continue
		}

		text, err := readBody(part, part.Header.Get("Content-Transfer-Encoding"))
		if err != nil {
			continue
		}
		textContent.WriteString(text)
		textContent.WriteString("\n")
	}

	if textContent.Len() > 0 {
		return textContent.String(), nil
	}
	return NoTextPlaceholder, nil
}

// readBody reads a body or part, decoding quoted-printable and base64
// transfer encodings. Unknown encodings are read as-is.
func readBody(r io.Reader, transferEncoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(transferEncoding)) {
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
