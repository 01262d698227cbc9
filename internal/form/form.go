// Package form decodes request bodies into a flat field mapping plus a
// list of binary attachments, uniformly for JSON and multipart encodings.
package form

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strconv"
	"strings"

	mJson "github.com/doggiechef/backend/internal/json"
)

// ErrEmptyBody is returned for a zero-length request body, distinct from a
// body that is present but malformed.
var ErrEmptyBody = errors.New("empty request body")

// DecodeError reports a body that does not parse under its declared
// content type. Reason is safe to return to the client; the underlying
// cause, if any, is reachable through errors.As.
type DecodeError struct {
	Reason string
	cause  error
}

func (e *DecodeError) Error() string {
	return e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

// Attachment is a named binary payload extracted from a multipart body.
type Attachment struct {
	Filename string
	Data     []byte
}

// Fields is a flat mapping of form field names to their string values.
type Fields map[string]string

// Get returns the trimmed value for a key, or "" when absent.
func (f Fields) Get(key string) string {
	return strings.TrimSpace(f[key])
}

// Decode extracts fields and attachments from body according to
// contentType. JSON bodies become a field mapping with no attachments;
// multipart bodies yield fields for filename-less parts and attachments
// for the rest, in the order the parts appear. Repeated field names are
// last-write-wins; repeated attachment names are all kept.
func Decode(contentType string, body io.Reader) (Fields, []Attachment, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, nil, &DecodeError{Reason: fmt.Sprintf("invalid content type %q", contentType)}
	}

	br := bufio.NewReader(body)
	if _, err := br.Peek(1); err == io.EOF {
		return nil, nil, ErrEmptyBody
	}

	switch {
	case mediaType == "application/json":
		fields, err := decodeJSONFields(br)
		return fields, nil, err
	case mediaType == "multipart/form-data":
		boundary := params["boundary"]
		if boundary == "" {
			return nil, nil, &DecodeError{Reason: "multipart content type missing boundary"}
		}
		return decodeMultipart(br, boundary)
	default:
		return nil, nil, &DecodeError{Reason: fmt.Sprintf("unsupported content type %q", mediaType)}
	}
}

func decodeJSONFields(body io.Reader) (Fields, error) {
	decoder := json.NewDecoder(body)
	decoder.UseNumber()

	var raw map[string]any
	if err := mJson.DecodeJSON(&raw, decoder); err != nil {
		return nil, &DecodeError{Reason: "malformed JSON body", cause: err}
	}

	fields := make(Fields, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			// Absent and null are equivalent.
		case string:
			fields[key] = v
		case json.Number:
			fields[key] = v.String()
		case bool:
			fields[key] = strconv.FormatBool(v)
		default:
			return nil, &DecodeError{Reason: fmt.Sprintf("field %q: expected a scalar value", key)}
		}
	}
	return fields, nil
}

func decodeMultipart(body io.Reader, boundary string) (Fields, []Attachment, error) {
	reader := multipart.NewReader(body, boundary)

	fields := make(Fields)
	var attachments []Attachment
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, &DecodeError{Reason: "malformed multipart body", cause: err}
		}

		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, nil, &DecodeError{Reason: "reading multipart part", cause: err}
		}

		if part.FileName() == "" {
			fields[part.FormName()] = string(data)
			continue
		}
		attachments = append(attachments, Attachment{
			Filename: part.FileName(),
			Data:     data,
		})
	}

	return fields, attachments, nil
}
