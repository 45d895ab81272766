package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	orderDomain "github.com/davicafu/tiendalab/internal/order/domain"
)

// CartHTTPClient lee el carrito del comprador vía REST en el servicio de
// carritos. El token del comprador se propaga tal cual en Authorization.
type CartHTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewCartHTTPClient(baseURL string) *CartHTTPClient {
	return &CartHTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *CartHTTPClient) GetCart(ctx context.Context, userID, token string) (*orderDomain.Cart, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cart", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("X-User-ID", userID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cart service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cart service returned status %d", resp.StatusCode)
	}

	var cart orderDomain.Cart
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return nil, fmt.Errorf("invalid cart response: %w", err)
	}
	return &cart, nil
}

// Verificación estática
var _ orderDomain.CartClient = (*CartHTTPClient)(nil)
