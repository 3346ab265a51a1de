package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/logger"

	"github.com/shopspring/decimal"
)

// Client is the HTTP implementation of Provider. Every call is bounded by
// the configured timeout; a transport error or timeout surfaces as
// domain.ErrProviderUnavailable so callers know a retry is safe.
type Client struct {
	baseURL    string
	apiKey     string
	currency   string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, currency string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		currency: currency,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type apiAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type createPaymentBody struct {
	Amount      apiAmount `json:"amount"`
	ExternalID  string    `json:"externalId"`
	Description string    `json:"description"`
	BuyerEmail  string    `json:"buyerEmail"`
	ReturnURL   string    `json:"returnUrl"`
}

type createPaymentResponse struct {
	PaymentID   string `json:"paymentId"`
	RedirectURL string `json:"redirectUrl"`
}

type paymentStatusResponse struct {
	PaymentID string    `json:"paymentId"`
	Status    string    `json:"status"`
	Amount    apiAmount `json:"amount"`
}

func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResult, error) {
	currency := req.Currency
	if currency == "" {
		currency = c.currency
	}
	body := createPaymentBody{
		Amount: apiAmount{
			Value:    CentsToValue(req.AmountCents),
			Currency: currency,
		},
		ExternalID:  req.ExternalID,
		Description: req.Description,
		BuyerEmail:  req.BuyerEmail,
		ReturnURL:   req.ReturnURL,
	}

	logger.ExternalServiceCall("payment-provider", "CreatePayment", "external_id", req.ExternalID, "amount_cents", req.AmountCents)

	var resp createPaymentResponse
	err := c.postJSON(ctx, "/v1/payments", body, &resp)
	logger.ExternalServiceResult("payment-provider", "CreatePayment", err)
	if err != nil {
		return nil, err
	}
	if resp.PaymentID == "" || resp.RedirectURL == "" {
		return nil, fmt.Errorf("provider returned incomplete payment session: %w", domain.ErrProviderUnavailable)
	}
	return &CreatePaymentResult{PaymentID: resp.PaymentID, RedirectURL: resp.RedirectURL}, nil
}

func (c *Client) GetPaymentStatus(ctx context.Context, paymentID string) (*PaymentStatusResult, error) {
	logger.ExternalServiceCall("payment-provider", "GetPaymentStatus", "payment_id", paymentID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.ExternalServiceResult("payment-provider", "GetPaymentStatus", err)
		return nil, fmt.Errorf("get payment status: %w", domain.ErrProviderUnavailable)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		err := fmt.Errorf("provider returned status %d: %w", httpResp.StatusCode, domain.ErrProviderUnavailable)
		logger.ExternalServiceResult("payment-provider", "GetPaymentStatus", err)
		return nil, err
	}

	var resp paymentStatusResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		logger.ExternalServiceResult("payment-provider", "GetPaymentStatus", err)
		return nil, fmt.Errorf("decode payment status: %w", domain.ErrProviderUnavailable)
	}
	logger.ExternalServiceResult("payment-provider", "GetPaymentStatus", nil, "status", resp.Status)

	cents, err := ValueToCents(resp.Amount.Value)
	if err != nil {
		return nil, fmt.Errorf("parse payment amount %q: %w", resp.Amount.Value, err)
	}
	return &PaymentStatusResult{
		PaymentID:   resp.PaymentID,
		Status:      resp.Status,
		AmountCents: cents,
	}, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call provider: %w", domain.ErrProviderUnavailable)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK && httpResp.StatusCode != http.StatusCreated {
		return fmt.Errorf("provider returned status %d: %w", httpResp.StatusCode, domain.ErrProviderUnavailable)
	}
	return json.NewDecoder(httpResp.Body).Decode(out)
}

// ValueToCents parses a provider amount such as "200.00" into integer cents.
func ValueToCents(value string) (int64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, err
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// CentsToValue renders integer cents as the "123.45" form the provider
// expects.
func CentsToValue(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
