package codes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RESTStore habla con el backend de códigos dedicado:
//
//	GET   {base}/codes/       -> {"data":[{"code","_id","isUsed","isSent"}]}
//	PATCH {base}/codes/{_id}  <- {"code": v, "isSent": true}
//
// Es el backend por defecto.
type RESTStore struct {
	BaseURL string
	HTTP    *http.Client
}

func NewRESTStore(baseURL string, timeout time.Duration) *RESTStore {
	return &RESTStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type restCode struct {
	Code   string `json:"code"`
	ID     string `json:"_id"`
	IsUsed bool   `json:"isUsed"`
	IsSent bool   `json:"isSent"`
}

type restEnvelope struct {
	Data []restCode `json:"data"`
}

func (s *RESTStore) List(ctx context.Context) ([]AccessCode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/codes/", nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("codes store: list: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("codes store: list: unexpected status %d", resp.StatusCode)
	}

	var env restEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("codes store: list: decode: %w", err)
	}
	out := make([]AccessCode, 0, len(env.Data))
	for _, c := range env.Data {
		out = append(out, AccessCode{Value: c.Code, ID: c.ID, Used: c.IsUsed, Sent: c.IsSent})
	}
	return out, nil
}

func (s *RESTStore) FetchEligible(ctx context.Context) (AccessCode, error) {
	list, err := s.List(ctx)
	if err != nil {
		return AccessCode{}, err
	}
	return firstEligible(list)
}

func (s *RESTStore) MarkSent(ctx context.Context, code AccessCode) error {
	if code.ID == "" {
		return fmt.Errorf("codes store: mark sent: code %q has no store id", code.Value)
	}
	// El backend espera el valor del código repetido junto al flag.
	body, err := json.Marshal(map[string]any{
		"code":   code.Value,
		"isSent": true,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.BaseURL+"/codes/"+code.ID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("codes store: mark sent: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("codes store: mark sent: unexpected status %d", resp.StatusCode)
	}
	return nil
}
