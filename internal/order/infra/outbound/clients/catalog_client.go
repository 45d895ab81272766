package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	orderDomain "github.com/davicafu/tiendalab/internal/order/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// CatalogHTTPClient lee snapshots de producto vía REST en el servicio de
// catálogo. Un 404 aguas arriba se traduce a ErrProductGone para que el
// orquestador lo trate como línea huérfana y no como fallo de red.
type CatalogHTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewCatalogHTTPClient(baseURL string) *CatalogHTTPClient {
	return &CatalogHTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *CatalogHTTPClient) GetProduct(ctx context.Context, productID string) (*sharedEvents.ProductSnapshot, error) {
	url := fmt.Sprintf("%s/products/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog service unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// sigue abajo
	case http.StatusNotFound:
		return nil, orderDomain.ErrProductGone
	default:
		return nil, fmt.Errorf("catalog service returned status %d", resp.StatusCode)
	}

	var wrapper struct {
		Data *sharedEvents.ProductSnapshot `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return nil, fmt.Errorf("invalid product response: %w", err)
	}
	if wrapper.Data == nil {
		return nil, fmt.Errorf("empty product response for %s", productID)
	}
	return wrapper.Data, nil
}

// Verificación estática
var _ orderDomain.ProductClient = (*CatalogHTTPClient)(nil)
