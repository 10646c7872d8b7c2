package authsdk

import (
	"context"
	"net/http"
)

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service can reach its database.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

// GetHealth calls the health endpoint used by the mobile app.
func (c *SDKClient) GetHealth(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/health")
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
