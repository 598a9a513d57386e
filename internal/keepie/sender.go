package keepie

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"
)

// Sender delivers a credential to a single destination url.
type Sender interface {
	Send(ctx context.Context, destinationUrl string, credential Credential) error
}

// NewHTTPSender returns the production Sender: a multipart form POST
// carrying `name` and `password` fields, the wire format receipt
// endpoints already speak. The response body is ignored; any 2xx
// status counts as delivered.
func NewHTTPSender(timeout time.Duration) Sender {
	return &httpSender{
		client: &http.Client{Timeout: timeout},
	}
}

type httpSender struct {
	client *http.Client
}

func (s *httpSender) Send(ctx context.Context, destinationUrl string, credential Credential) error {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	if err := form.WriteField("name", credential.Name); err != nil {
		return err
	}
	if err := form.WriteField("password", credential.Secret); err != nil {
		return err
	}
	if err := form.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destinationUrl, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, destinationUrl)
	}

	return nil
}
