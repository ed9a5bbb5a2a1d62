// Package parser provides the PDF text extraction adapter.
// It implements ports.PageTextProvider by calling an external extraction
// service that returns text per page.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
)

const (
	DefaultServiceURL = "http://localhost:8081"
	DefaultTimeout    = 60 * time.Second
)

// PDFServiceParser implements ports.PageTextProvider over HTTP.
type PDFServiceParser struct {
	serviceURL string
	client     *http.Client
	serviceCmd *exec.Cmd
}

// NewPDFServiceParser creates a parser for the extraction service at serviceURL.
func NewPDFServiceParser(serviceURL string, timeout time.Duration) *PDFServiceParser {
	if serviceURL == "" {
		serviceURL = DefaultServiceURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PDFServiceParser{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		client:     &http.Client{Timeout: timeout},
	}
}

// parseResponse is the extraction service response format. Older services
// only fill Text, with pages separated by form feeds.
type parseResponse struct {
	Pages []struct {
		PageNumber int    `json:"page_number"`
		Text       string `json:"text"`
	} `json:"pages"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Load reads the PDF at path and returns its text page by page.
func (p *PDFServiceParser) Load(ctx context.Context, path string) ([]entities.PageText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, data)
}

// Parse extracts per-page text from PDF bytes.
func (p *PDFServiceParser) Parse(ctx context.Context, data []byte) ([]entities.PageText, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.serviceURL+"/parse", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/pdf")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling PDF service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var result parseResponse
	if err := json.Unmarshal(body, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("PDF service returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if result.Error != "" {
		return nil, fmt.Errorf("PDF parse error: %s", result.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PDF service returned status %d", resp.StatusCode)
	}

	if len(result.Pages) == 0 {
		return entities.SplitPages(result.Text), nil
	}

	pages := make([]entities.PageText, len(result.Pages))
	for i, pg := range result.Pages {
		n := pg.PageNumber
		if n <= 0 {
			n = i + 1
		}
		pages[i] = entities.NewPageText(n, pg.Text)
	}
	return pages, nil
}

// SupportedExtensions returns file extensions this parser handles.
func (p *PDFServiceParser) SupportedExtensions() []string {
	return []string{".pdf"}
}

// StartService launches the extraction service script with python3 and
// returns a function that stops it.
func (p *PDFServiceParser) StartService(scriptPath string) (func(), error) {
	if _, err := os.Stat(scriptPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("PDF service script not found at %s", scriptPath)
	}

	p.serviceCmd = exec.Command("python3", scriptPath)
	p.serviceCmd.Stdout = os.Stderr
	p.serviceCmd.Stderr = os.Stderr

	if err := p.serviceCmd.Start(); err != nil {
		return nil, fmt.Errorf("starting PDF service: %w", err)
	}

	// Wait for service to be ready
	time.Sleep(1 * time.Second)

	cleanup := func() {
		if p.serviceCmd != nil && p.serviceCmd.Process != nil {
			p.serviceCmd.Process.Kill()
		}
	}

	return cleanup, nil
}

// IsServiceHealthy checks if the extraction service is running.
func (p *PDFServiceParser) IsServiceHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.serviceURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
