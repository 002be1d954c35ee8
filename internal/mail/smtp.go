package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
)

// SMTPSender sends messages through a PLAIN-authenticated SMTP relay.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPSender validates the relay settings and returns a sender.
func NewSMTPSender(host, port, username, password, from string) (*SMTPSender, error) {
	if host == "" {
		return nil, fmt.Errorf("smtp host not set")
	}
	if port == "" {
		return nil, fmt.Errorf("smtp port not set")
	}
	if from == "" {
		from = username
	}
	if from == "" {
		return nil, fmt.Errorf("smtp from address not set")
	}
	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}, nil
}

// Send builds a MIME message and hands it to the relay. The context is
// honored up front only; net/smtp itself does not take one.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("message has no recipient")
	}

	body, err := buildMIME(s.from, msg)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	if err := smtp.SendMail(addr, auth, s.from, []string{msg.To}, body); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// buildMIME renders headers plus a multipart/related body wrapping a
// multipart/alternative (text + html) part and any attachments.
func buildMIME(from string, msg Message) ([]byte, error) {
	var buf bytes.Buffer
	related := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/related; boundary=%q\r\n\r\n", related.Boundary())

	altBuf := &bytes.Buffer{}
	alt := multipart.NewWriter(altBuf)
	if err := writeTextPart(alt, "text/plain; charset=UTF-8", msg.Text); err != nil {
		return nil, err
	}
	if msg.HTML != "" {
		if err := writeTextPart(alt, "text/html; charset=UTF-8", msg.HTML); err != nil {
			return nil, err
		}
	}
	if err := alt.Close(); err != nil {
		return nil, err
	}

	altHeader := textproto.MIMEHeader{}
	altHeader.Set("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", alt.Boundary()))
	part, err := related.CreatePart(altHeader)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(altBuf.Bytes()); err != nil {
		return nil, err
	}

	for _, att := range msg.Attachments {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", fmt.Sprintf("%s; name=%q", att.MimeType, att.Filename))
		header.Set("Content-Transfer-Encoding", "base64")
		if att.CID != "" {
			// Direct assignment: MIMEHeader.Set would canonicalize the key to
		// "Content-Id", losing the conventional RFC 2392 capitalization.
		header["Content-ID"] = []string{fmt.Sprintf("<%s>", att.CID)}
			header.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", att.Filename))
		} else {
			header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
		}
		part, err := related.CreatePart(header)
		if err != nil {
			return nil, err
		}
		enc := base64.StdEncoding.EncodeToString(att.Content)
		for len(enc) > 0 {
			n := 76
			if n > len(enc) {
				n = len(enc)
			}
			if _, err := fmt.Fprintf(part, "%s\r\n", enc[:n]); err != nil {
				return nil, err
			}
			enc = enc[n:]
		}
	}

	if err := related.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTextPart(w *multipart.Writer, contentType, body string) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(part, body)
	return err
}
