// Package mercadopago implements the payment provider client and the
// webhook signature validator for the Mercado Pago Payments API.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/artilheiro/store-backend/internal/application"
	"github.com/artilheiro/store-backend/internal/config"
	"github.com/google/uuid"
)

type Client struct {
	baseURL         string
	accessToken     string
	notificationURL string
	httpClient      *http.Client
}

func NewClient(cfg config.MercadoPagoConfig) *Client {
	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		accessToken:     cfg.AccessToken,
		notificationURL: cfg.NotificationURL,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

var _ application.PaymentGateway = (*Client)(nil)

func (c *Client) CreateCardPayment(ctx context.Context, req application.CardPaymentRequest) (*application.GatewayPayment, error) {
	body := paymentCreateBody{
		TransactionAmount: centsToAmount(req.AmountCents),
		Token:             req.Token,
		PaymentMethodID:   req.PaymentMethodID,
		Installments:      req.Installments,
		Description:       truncate(req.Description, 256),
		ExternalReference: req.ExternalReference,
		Payer:             toPayerBody(req.Payer, nil),
		NotificationURL:   c.publicNotificationURL(),
	}
	if req.IssuerID != "" {
		body.IssuerID = req.IssuerID
	}
	return c.createPayment(ctx, body)
}

func (c *Client) CreatePixPayment(ctx context.Context, req application.PixPaymentRequest) (*application.GatewayPayment, error) {
	body := paymentCreateBody{
		TransactionAmount: centsToAmount(req.AmountCents),
		PaymentMethodID:   "pix",
		Installments:      1,
		Description:       truncate(req.Description, 256),
		ExternalReference: req.ExternalReference,
		Payer:             toPayerBody(req.Payer, nil),
		NotificationURL:   c.publicNotificationURL(),
	}
	return c.createPayment(ctx, body)
}

func (c *Client) CreateBoletoPayment(ctx context.Context, req application.BoletoPaymentRequest) (*application.GatewayPayment, error) {
	body := paymentCreateBody{
		TransactionAmount: centsToAmount(req.AmountCents),
		PaymentMethodID:   "bolbradesco",
		Installments:      1,
		Description:       truncate(req.Description, 256),
		ExternalReference: req.ExternalReference,
		Payer:             toPayerBody(req.Payer, &req.Address),
		NotificationURL:   c.publicNotificationURL(),
	}
	return c.createPayment(ctx, body)
}

func (c *Client) GetPayment(ctx context.Context, paymentID int64) (*application.GatewayPayment, error) {
	if c.accessToken == "" {
		return nil, application.NewConfigurationError("mercadopago access token is not configured")
	}
	url := fmt.Sprintf("%s/v1/payments/%d", c.baseURL, paymentID)
	resp, err := sendRequest[any, paymentResponse](c, ctx, http.MethodGet, url, nil, "")
	if err != nil {
		return nil, err
	}
	return toGatewayPayment(resp), nil
}

func (c *Client) createPayment(ctx context.Context, body paymentCreateBody) (*application.GatewayPayment, error) {
	if c.accessToken == "" {
		return nil, application.NewConfigurationError("mercadopago access token is not configured")
	}
	url := c.baseURL + "/v1/payments"
	resp, err := sendRequest[paymentCreateBody, paymentResponse](c, ctx, http.MethodPost, url, &body, uuid.New().String())
	if err != nil {
		return nil, err
	}
	return toGatewayPayment(resp), nil
}

func sendRequest[Req any, Resp any](c *Client, ctx context.Context, method, url string, reqBody *Req, idempotencyKey string) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	if idempotencyKey != "" {
		httpReq.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		var apiErrResp apiErrorResponse
		if err := json.Unmarshal(body, &apiErrResp); err != nil || apiErrResp.Message == "" {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("provider returned status %d", resp.StatusCode),
				Detail:     string(body),
			}
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    apiErrResp.Message,
			Detail:     apiErrResp.Detail(),
		}
	}

	var parsed Resp
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &parsed, nil
}

// publicNotificationURL returns the configured webhook URL only when it
// is usable by the provider: absolute http(s) and not a loopback host
// (the provider rejects localhost callbacks).
func (c *Client) publicNotificationURL() string {
	u := strings.TrimSpace(c.notificationURL)
	lower := strings.ToLower(u)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return ""
	}
	if strings.Contains(lower, "localhost") || strings.Contains(lower, "127.0.0.1") {
		return ""
	}
	return u
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
