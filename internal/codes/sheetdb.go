package codes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SheetStore habla con un proxy REST sobre una planilla. No hay IDs de
// registro: la fila se direcciona por el valor del código, y los flags son
// strings "TRUE"/"FALSE".
//
//	GET   {base}             -> [{"Code","isUsed","isSent"}]
//	PATCH {base}/Code/{code} <- {"Code": v, "isSent": "TRUE"}
type SheetStore struct {
	BaseURL string
	HTTP    *http.Client
}

func NewSheetStore(baseURL string, timeout time.Duration) *SheetStore {
	return &SheetStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type sheetRow struct {
	Code   string `json:"Code"`
	IsUsed string `json:"isUsed"`
	IsSent string `json:"isSent"`
}

func sheetFlag(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "TRUE")
}

func (s *SheetStore) List(ctx context.Context) ([]AccessCode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet store: list: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet store: list: unexpected status %d", resp.StatusCode)
	}

	var rows []sheetRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("sheet store: list: decode: %w", err)
	}
	out := make([]AccessCode, 0, len(rows))
	for _, r := range rows {
		out = append(out, AccessCode{Value: r.Code, Used: sheetFlag(r.IsUsed), Sent: sheetFlag(r.IsSent)})
	}
	return out, nil
}

func (s *SheetStore) FetchEligible(ctx context.Context) (AccessCode, error) {
	list, err := s.List(ctx)
	if err != nil {
		return AccessCode{}, err
	}
	return firstEligible(list)
}

func (s *SheetStore) MarkSent(ctx context.Context, code AccessCode) error {
	body, err := json.Marshal(map[string]string{
		"Code":   code.Value,
		"isSent": "TRUE",
	})
	if err != nil {
		return err
	}

	u := s.BaseURL + "/Code/" + url.PathEscape(code.Value)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("sheet store: mark sent: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sheet store: mark sent: unexpected status %d", resp.StatusCode)
	}
	return nil
}
