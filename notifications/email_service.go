package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "github.com/padelapp/padel_club/configs"
)

// Transport delivers a formatted message to a set of recipients. A non-nil
// error means the message did not go out; the dispatcher treats that as a
// soft failure.
type Transport interface {
	Send(subject, body, from string, to []string) error
}

// BrevoTransport sends transactional email through the Brevo REST API.
type BrevoTransport struct {
	APIKey     string
	SenderName string
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	TextContent string              `json:"textContent"`
}

// Mail is the process-wide dispatcher, wired by InitEmailService.
var Mail *Dispatcher

func InitEmailService() {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.ConfigDefault("EMAIL_SENDER_NAME", "Padel Club")

	if apiKey == "" || senderEmail == "" {
		log.Println("⚠️ Email service not configured. Missing API Key or Sender Email; notifications will be recorded but not delivered.")
		Mail = &Dispatcher{From: senderEmail}
		return
	}

	Mail = &Dispatcher{
		Transport: &BrevoTransport{APIKey: apiKey, SenderName: senderName},
		From:      senderEmail,
	}
	log.Println("✅ Email service initialized successfully.")
}

func (t *BrevoTransport) Send(subject, body, from string, to []string) error {
	url := "https://api.brevo.com/v3/smtp/email"

	recipients := make([]map[string]string, 0, len(to))
	for _, addr := range to {
		if addr == "" || !strings.Contains(addr, "@") {
			return fmt.Errorf("invalid recipient email: %s", addr)
		}
		recipients = append(recipients, map[string]string{
			"email": addr,
			"name":  addr[:strings.Index(addr, "@")],
		})
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": t.SenderName, "email": from},
		To:          recipients,
		Subject:     subject,
		TextContent: body,
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(encoded))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", t.APIKey)
	req.Header.Set("content-type", "application/json")

	client := &http.Client{
		Timeout: 10 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		log.Printf("Brevo API error: Status %d, Body: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("failed to send email via Brevo: %s", string(respBody))
	}

	return nil
}
