package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WhatsAppSender posts text messages through the WhatsApp Cloud API.
type WhatsAppSender struct {
	token   string
	phoneID string
	apiURL  string
	client  *http.Client
}

func NewWhatsAppSender(token, phoneID, apiURL string) *WhatsAppSender {
	return &WhatsAppSender{
		token:   token,
		phoneID: phoneID,
		apiURL:  apiURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether credentials were configured.
func (w *WhatsAppSender) Enabled() bool {
	return w.token != "" && w.phoneID != ""
}

func (w *WhatsAppSender) SendText(ctx context.Context, to, text string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": text},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", w.apiURL, w.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.token)

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp send failed: %s (%d)", string(b), resp.StatusCode)
	}

	return nil
}
