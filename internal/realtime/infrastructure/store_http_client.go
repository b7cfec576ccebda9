package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"parkeoWs/internal/realtime/application/port"
	"parkeoWs/internal/realtime/domain"
)

// StoreHTTPClient reads the platform's relational data through its REST API.
// Every request forwards the calling client's own bearer token so the store
// applies its usual ownership and role rules.
type StoreHTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewStoreHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *StoreHTTPClient {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &StoreHTTPClient{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"), client: client}
}

type subjectResponse struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (s *StoreHTTPClient) RoleBySubject(ctx context.Context, token, subjectID string) (domain.Role, error) {
	var out subjectResponse
	endpoint := path.Join("/api/v1/users", url.PathEscape(subjectID))
	if err := s.getJSON(ctx, token, endpoint, nil, &out); err != nil {
		return "", err
	}
	return domain.NormalizeRole(out.Role), nil
}

func (s *StoreHTTPClient) ParkingAvailability(ctx context.Context, token, lotID string) (*domain.AvailabilitySnapshot, error) {
	query := url.Values{}
	if lotID = strings.TrimSpace(lotID); lotID != "" {
		query.Set("lot_id", lotID)
	}
	var out domain.AvailabilitySnapshot
	if err := s.getJSON(ctx, token, "/api/v1/parking-lots/availability", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *StoreHTTPClient) BookingStatus(ctx context.Context, token, subjectID, bookingID string) (*domain.BookingSnapshot, error) {
	endpoint := path.Join("/api/v1/users", url.PathEscape(subjectID), "bookings", url.PathEscape(bookingID))
	var out domain.BookingSnapshot
	if err := s.getJSON(ctx, token, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *StoreHTTPClient) LiveStats(ctx context.Context, token string) (*domain.StatsSnapshot, error) {
	var out domain.StatsSnapshot
	if err := s.getJSON(ctx, token, "/api/v1/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *StoreHTTPClient) getJSON(ctx context.Context, token, endpoint string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("store request build: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if trimmed := strings.TrimSpace(token); trimmed != "" {
		req.Header.Set("Authorization", "Bearer "+trimmed)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	res, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("store request failed: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return port.ErrStoreForbidden
	case http.StatusNotFound:
		if strings.Contains(endpoint, "/bookings/") {
			return port.ErrBookingNotFound
		}
		return port.ErrSubjectNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return fmt.Errorf("unexpected store response %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode store response: %w", err)
	}
	return nil
}
