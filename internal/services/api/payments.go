package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/uep-freelance/freelance_web/internal/models"
	"github.com/uep-freelance/freelance_web/internal/services"
)

func (c *Client) CreateEscrow(ctx context.Context, token string, in services.EscrowRequest) (*models.Payment, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	body := map[string]any{
		"jobId":  in.JobID,
		"amount": amount(in.Amount),
		"method": in.Method,
	}
	var out models.Payment
	if err := c.do(ctx, call{method: http.MethodPost, path: "/payments/escrow", token: token, body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReleasePayment(ctx context.Context, token string, paymentID int64) (*models.Payment, error) {
	return c.settle(ctx, token, paymentID, "release")
}

func (c *Client) RefundPayment(ctx context.Context, token string, paymentID int64) (*models.Payment, error) {
	return c.settle(ctx, token, paymentID, "refund")
}

func (c *Client) settle(ctx context.Context, token string, paymentID int64, action string) (*models.Payment, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out models.Payment
	path := fmt.Sprintf("/payments/%d/%s", paymentID, action)
	if err := c.do(ctx, call{method: http.MethodPost, path: path, token: token, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessMockPayment needs no token; the server answers in plain text.
func (c *Client) ProcessMockPayment(ctx context.Context, in services.MockPaymentRequest) (*services.MockPaymentResult, error) {
	body := map[string]any{
		"method":         in.Method,
		"accountDetails": in.AccountDetails,
		"amount":         amount(in.Amount),
	}
	var text string
	if err := c.do(ctx, call{method: http.MethodPost, path: "/payments/process-mock", body: body, raw: &text}); err != nil {
		return nil, err
	}
	if text == "" {
		text = "Payment processed successfully"
	}
	return &services.MockPaymentResult{Success: true, Message: text}, nil
}

func (c *Client) GetPayment(ctx context.Context, token string, paymentID int64) (*models.Payment, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out models.Payment
	if err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/payments/%d", paymentID), token: token, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
