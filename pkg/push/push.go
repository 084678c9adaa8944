// Package push wraps the web-push gateway. Delivery is best-effort: a
// failed push is logged by the caller and never fails the enclosing
// request.
package push

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
)

type Gateway struct {
	publicKey  string
	privateKey string
	subscriber string
	client     *http.Client
}

// NewGateway builds a gateway from the VAPID key pair. subscriber is the
// contact address sent in the VAPID claims. The gateway's own client
// carries a timeout so a stalled push endpoint cannot hold a delivery
// goroutine forever.
func NewGateway(publicKey, privateKey, subscriber string) *Gateway {
	return &Gateway{
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: subscriber,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether VAPID keys are configured.
func (g *Gateway) Enabled() bool {
	return g != nil && g.publicKey != "" && g.privateKey != ""
}

// Send delivers one payload to one stored subscription. subscription is the
// opaque JSON blob the browser handed over at subscribe time.
func (g *Gateway) Send(subscription []byte, payload any) error {
	if !g.Enabled() {
		return nil
	}

	var sub webpush.Subscription
	if err := json.Unmarshal(subscription, &sub); err != nil {
		return fmt.Errorf("invalid subscription payload: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	resp, err := webpush.SendNotification(body, &sub, &webpush.Options{
		HTTPClient:      g.client,
		Subscriber:      g.subscriber,
		VAPIDPublicKey:  g.publicKey,
		VAPIDPrivateKey: g.privateKey,
		TTL:             30,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("push endpoint returned %d", resp.StatusCode)
	}
	return nil
}
