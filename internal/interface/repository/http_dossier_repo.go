package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"expediente-service/internal/domain/entity"
	"expediente-service/pkg/logger"
)

// HTTPDossierRepository fetches operator dossiers from the operadores API.
// Authorization and transport errors are surfaced as-is; the caller decides
// what to show.
type HTTPDossierRepository struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

// NewHTTPDossierRepository creates the upstream client. Requests carry the
// bearer token and retry on transient transport failures.
func NewHTTPDossierRepository(baseURL, token string, timeout time.Duration, log logger.Logger) *HTTPDossierRepository {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil

	client := retryClient.StandardClient()
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	client.Timeout = timeout

	return &HTTPDossierRepository{
		baseURL: baseURL,
		client:  client,
		logger:  log,
	}
}

// FetchExpediente retrieves the full dossier for one collaborator. The
// optional start/end dates are passed through to the upstream query.
func (r *HTTPDossierRepository) FetchExpediente(ctx context.Context, collaboratorID, startDate, endDate string) (*entity.OperatorDossier, error) {
	endpoint := fmt.Sprintf("%s/api/operadores/%s/expediente", r.baseURL, url.PathEscape(collaboratorID))

	params := url.Values{}
	if startDate != "" {
		params.Set("fechaInicio", startDate)
	}
	if endDate != "" {
		params.Set("fechaFin", endDate)
	}
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch expediente: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read expediente response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(body, "error").String(); msg != "" {
			return nil, fmt.Errorf("upstream %d: %s", resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("upstream %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var dossier entity.OperatorDossier
	if err := json.Unmarshal(body, &dossier); err != nil {
		return nil, fmt.Errorf("decode expediente: %w", err)
	}

	r.logger.Debug("Decoded expediente payload",
		"collaborator", collaboratorID,
		"bytes", len(body))
	return &dossier, nil
}
