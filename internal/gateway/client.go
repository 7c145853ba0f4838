package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Spok95/cargo-calc-bot/internal/order"
)

// Client — клиент HTTP API расчёта и оформления заказов.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *slog.Logger
}

func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

// APIError — отказ сервера с его текстом ошибки; Code заполняется, когда
// сервер присылает структурированный код.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

const codePickupAddressRequired = "pickup_address_required"

// IsAddressMissing распознаёт отказ «не указан адрес забора». Сначала смотрим
// структурированный код, затем текст сообщения — старые версии сервера кода
// не присылают.
func IsAddressMissing(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == codePickupAddressRequired {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "адрес") && strings.Contains(msg, "не указан")
}

func (c *Client) Warehouses(ctx context.Context) ([]Warehouse, error) {
	var out []Warehouse
	if err := c.getJSON(ctx, "/orders/warehouses/", &out); err != nil {
		return nil, fmt.Errorf("warehouses: %w", err)
	}
	return out, nil
}

func (c *Client) ContainerTypes(ctx context.Context) (*ContainerTypes, error) {
	var out ContainerTypes
	if err := c.getJSON(ctx, "/orders/containers/", &out); err != nil {
		return nil, fmt.Errorf("container types: %w", err)
	}
	return &out, nil
}

func (c *Client) AdditionalServices(ctx context.Context) ([]ServiceGroup, error) {
	var out servicesResponse
	if err := c.getJSON(ctx, "/orders/additional_services/", &out); err != nil {
		return nil, fmt.Errorf("additional services: %w", err)
	}
	return out.ServiceGroups, nil
}

func (c *Client) CalculatePrice(ctx context.Context, f order.Form) (*PriceResponse, error) {
	var out PriceResponse
	if err := c.postJSON(ctx, "/orders/calculate-price/", BuildPriceRequest(f), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, f order.Form, tg TelegramData) (*OrderResponse, error) {
	var out OrderResponse
	if err := c.postJSON(ctx, "/api/order/", BuildOrderRequest(f, tg), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) apiError(status int, data []byte) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	_ = json.Unmarshal(data, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.log.Debug("api error", "status", status, "code", body.Code, "msg", msg)
	return &APIError{Status: status, Code: body.Code, Message: msg}
}
