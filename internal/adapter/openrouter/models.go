package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"examgen/internal/domain"
)

type modelsResponse struct {
	Data []modelEntry `json:"data"`
}

// modelEntry mirrors the listing endpoint's shape. pricing.prompt is a
// string in practice but some gateways send a bare number, so
// json.Number covers both.
type modelEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Pricing     struct {
		Prompt json.Number `json:"prompt"`
	} `json:"pricing"`
}

// ListModels fetches the models available at the configured listing
// endpoint. Failures are propagated as a model fetch error and are not
// retried.
func (c *Client) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	if !c.IsConfigured() {
		return nil, domain.NewNotConfiguredError()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ModelsURL, nil)
	if err != nil {
		return nil, domain.NewModelFetchError(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.NewModelFetchError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewModelFetchError(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewModelFetchError(err)
	}

	models := make([]domain.ModelInfo, 0, len(body.Data))
	for _, entry := range body.Data {
		models = append(models, domain.ModelInfo{
			ID:          entry.ID,
			Name:        entry.Name,
			Description: entry.Description,
			PromptPrice: entry.Pricing.Prompt.String(),
		})
	}
	return models, nil
}
