package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"routine-advisor-be/internal/entity"
)

var (
	// ErrCatalogUnavailable means the catalog could not be fetched or parsed.
	// Callers treat it as non-fatal and keep showing a placeholder.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrProductNotFound is returned when a product id is not in the catalog (or the selection).
	ErrProductNotFound = errors.New("product not found")
)

// Source fetches the full catalog document.
type Source interface {
	Fetch(ctx context.Context) ([]entity.Product, error)
}

type document struct {
	Products *[]entity.Product `json:"products"`
}

// NewSource picks an HTTP source for http(s) locations and a file source otherwise.
func NewSource(location string, client *http.Client) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if client == nil {
			client = http.DefaultClient
		}
		return &HTTPSource{URL: location, Client: client}
	}
	return &FileSource{Path: location}
}

// Decode parses a catalog document. The "products" field must be present.
func Decode(data []byte) ([]entity.Product, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %v", ErrCatalogUnavailable, err)
	}
	if doc.Products == nil {
		return nil, fmt.Errorf("%w: catalog document has no products field", ErrCatalogUnavailable)
	}
	return *doc.Products, nil
}

type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]entity.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrCatalogUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch catalog: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch catalog: status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read catalog: %v", ErrCatalogUnavailable, err)
	}

	return Decode(body)
}

type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(ctx context.Context) ([]entity.Product, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCatalogUnavailable, s.Path, err)
	}
	return Decode(data)
}
