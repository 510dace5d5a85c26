package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/leavehub/leavehub/internal/subscription/domain"
)

const stripeCheckoutURL = "https://api.stripe.com/v1/checkout/sessions"

// StripeAdapter creates hosted checkout sessions through Stripe's REST API.
type StripeAdapter struct {
	secretKey string
	prices    map[domain.Plan]string
	client    *http.Client
}

// StripeConfig maps plans to Stripe price ids.
type StripeConfig struct {
	SecretKey     string
	CorePrice     string
	CompletePrice string
}

func NewStripe(cfg StripeConfig) (*StripeAdapter, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, domain.ErrInvalidConfig
	}
	return &StripeAdapter{
		secretKey: strings.TrimSpace(cfg.SecretKey),
		prices: map[domain.Plan]string{
			domain.PlanCore:     strings.TrimSpace(cfg.CorePrice),
			domain.PlanComplete: strings.TrimSpace(cfg.CompletePrice),
		},
		client: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (a *StripeAdapter) Provider() string {
	return "stripe"
}

func (a *StripeAdapter) CreateSession(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutSession, error) {
	price := a.prices[req.Plan]
	if price == "" {
		return domain.CheckoutSession{}, domain.ErrInvalidConfig
	}

	seats := req.Seats
	if seats < 1 {
		seats = 1
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", price)
	form.Set("line_items[0][quantity]", strconv.Itoa(seats))
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("client_reference_id", req.OrgID.String())
	if req.CustomerEmail != "" {
		form.Set("customer_email", req.CustomerEmail)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, stripeCheckoutURL, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.CheckoutSession{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.secretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.CheckoutSession{}, fmt.Errorf("%w: status %d", domain.ErrCheckoutFailed, resp.StatusCode)
	}

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &session); err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}
	if session.ID == "" || session.URL == "" {
		return domain.CheckoutSession{}, domain.ErrCheckoutFailed
	}

	return domain.CheckoutSession{
		Provider:  a.Provider(),
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}
