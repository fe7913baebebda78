package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// AlertNotifier : операционный канал оповещений
// Сбой записи в журнал доступа не должен блокировать ответ
// легитимному получателю, но и молча теряться не должен —
// уведомление уходит на внешний webhook
type AlertNotifier struct {
	url    string
	client *http.Client
}

func NewAlertNotifier(url string, timeout string) *AlertNotifier {
	duration, err := time.ParseDuration(timeout)
	if err != nil || duration <= 0 {
		duration = 10 * time.Second
	}

	return &AlertNotifier{
		url:    url,
		client: &http.Client{Timeout: duration},
	}
}

// Notify : отправляет оповещение; при пустом URL только пишет в лог
func (n *AlertNotifier) Notify(ctx context.Context, subject string, detail string) error {
	log.Printf("[AlertNotifier] ОПЕРАЦИОННОЕ ОПОВЕЩЕНИЕ: %s: %s", subject, detail)

	if n.url == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"subject":   subject,
		"detail":    detail,
		"timestamp": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return LogError("[AlertNotifier] ошибка сериализации оповещения", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return LogError("[AlertNotifier] ошибка создания запроса", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return LogError("[AlertNotifier] ошибка отправки оповещения", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return LogError("[AlertNotifier] webhook вернул ошибку", fmt.Errorf("статус %d", resp.StatusCode))
	}

	return nil
}
