package slackhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"git.vibecoding.academy/vca/vca/src/config"
	"git.vibecoding.academy/vca/vca/src/logging"
	"git.vibecoding.academy/vca/vca/src/models"
	"git.vibecoding.academy/vca/vca/src/oops"
	"github.com/jpillora/backoff"
)

// Notifications are strictly fire-and-forget. A dead webhook must
// never fail or slow down the request that triggered it, so all
// posting happens on a goroutine and errors only get logged.

var httpClient = &http.Client{
	Timeout: 10 * time.Second,
}

// Overridable for tests.
var webhookUrl = func() string {
	return config.Config.Slack.WebhookUrl
}

type message struct {
	Text string `json:"text"`
}

func NotifyWeekPublished(week *models.Week) {
	number := 0
	if week.Number != nil {
		number = *week.Number
	}
	notify(fmt.Sprintf(":rocket: *Week %d: %s* is now live! Go check it out.", number, week.Title))
}

func NotifyBadgeAwarded(badge *models.Badge, recipientName string) {
	text := fmt.Sprintf(":tada: *%s* just earned the *%s* badge!", recipientName, badge.Name)
	if badge.Description != nil && *badge.Description != "" {
		text += " " + *badge.Description
	}
	notify(text)
}

func NotifyDemoSubmitted(authorName string, demo *models.Demo) {
	text := fmt.Sprintf(":movie_camera: *%s* submitted a demo: *%s*", authorName, demo.Title)
	if demo.Url != nil {
		text += " " + *demo.Url
	}
	notify(text)
}

func notify(text string) {
	url := webhookUrl()
	if url == "" {
		return
	}

	go func() {
		err := post(url, text)
		if err != nil {
			logging.Error().Err(err).Msg("Failed to post Slack notification")
		}
	}()
}

const maxAttempts = 3

func post(url string, text string) error {
	payload, err := json.Marshal(message{Text: text})
	if err != nil {
		return oops.New(err, "failed to marshal Slack message")
	}

	b := backoff.Backoff{
		Min: 500 * time.Millisecond,
		Max: 5 * time.Second,
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(b.Duration())
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			cancel()
			return oops.New(err, "failed to create Slack webhook request")
		}
		req.Header.Set("Content-Type", "application/json")

		res, err := httpClient.Do(req)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		res.Body.Close()

		if res.StatusCode < 400 {
			return nil
		}
		lastErr = fmt.Errorf("slack webhook returned status %d", res.StatusCode)

		// 4xx responses mean the payload or the webhook itself is
		// bad; retrying will not help.
		if res.StatusCode < 500 {
			break
		}
	}

	return oops.New(lastErr, "failed to deliver Slack notification")
}
