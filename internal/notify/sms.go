package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/marketplace/internal/config"
)

// EskizSMS sends codes through the Eskiz gateway (POST message/sms/send).
type EskizSMS struct {
	URL    string
	Token  string
	From   string
	Client *http.Client
}

func NewEskizSMS(cfg config.SMSConfig) *EskizSMS {
	return &EskizSMS{
		URL:    cfg.URL,
		Token:  cfg.Token,
		From:   cfg.From,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type eskizRequest struct {
	MobilePhone string `json:"mobile_phone"`
	Message     string `json:"message"`
	From        string `json:"from"`
}

func (s *EskizSMS) Send(ctx context.Context, phone, code string) error {
	body, err := json.Marshal(eskizRequest{
		MobilePhone: strings.TrimPrefix(phone, "+"),
		Message:     "Your one time password is " + code,
		From:        s.From,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	res, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("sms gateway status %d: %s", res.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
