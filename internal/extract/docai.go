package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DocAIClient calls the Google Document AI OCR processor over its REST API.
type DocAIClient struct {
	projectID   string
	location    string
	processorID string
	tokenSource oauth2.TokenSource
	httpClient  *http.Client
}

// NewDocAIClient constructs the OCR backend. All three identifiers are
// required; a missing one means OCR is unconfigured and the caller should
// route around it rather than fail.
func NewDocAIClient(ctx context.Context, projectID, location, processorID string) (*DocAIClient, error) {
	if strings.TrimSpace(projectID) == "" || strings.TrimSpace(location) == "" || strings.TrimSpace(processorID) == "" {
		return nil, errors.New("GCP_PROJECT_ID, GCP_LOCATION and DOC_OCR_PROCESSOR_ID are required for OCR")
	}

	ts, err := google.DefaultTokenSource(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return nil, fmt.Errorf("document ai credentials: %w", err)
	}

	timeout := 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("DOCAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}

	return &DocAIClient{
		projectID:   strings.TrimSpace(projectID),
		location:    strings.TrimSpace(location),
		processorID: strings.TrimSpace(processorID),
		tokenSource: ts,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

type processRequest struct {
	RawDocument rawDocument `json:"rawDocument"`
}

type rawDocument struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

type processResponse struct {
	Document struct {
		Text string `json:"text"`
	} `json:"document"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Process runs OCR on the document bytes and returns the recognized text.
func (c *DocAIClient) Process(ctx context.Context, content []byte, mimeType string) (string, error) {
	payload, err := json.Marshal(processRequest{
		RawDocument: rawDocument{
			Content:  base64.StdEncoding.EncodeToString(content),
			MimeType: mimeType,
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://%s-documentai.googleapis.com/v1/projects/%s/locations/%s/processors/%s:process",
		c.location, c.projectID, c.location, c.processorID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	token, err := c.tokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("document ai token: %w", err)
	}
	token.SetAuthHeader(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("document ai request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed processResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("document ai response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("document ai error: %s (%s)", parsed.Error.Message, parsed.Error.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("document ai status %d", resp.StatusCode)
	}

	return parsed.Document.Text, nil
}

var _ OCRBackend = (*DocAIClient)(nil)
