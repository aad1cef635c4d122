package unstructured

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client talks to an unstructured-io partition server to pull plain text
// out of PDF chapters before chunking.
type Client struct {
	baseURL string
	http    *http.Client
}

type element struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Metadata struct {
		PageNumber int `json:"page_number,omitempty"`
	} `json:"metadata"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

// ExtractText partitions the document and joins the element texts in
// reading order.
func (c *Client) ExtractText(ctx context.Context, filename string, content []byte) (string, error) {
	var requestBody bytes.Buffer
	multipartWriter := multipart.NewWriter(&requestBody)

	fileWriter, err := multipartWriter.CreateFormFile("files", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %v", err)
	}
	if _, err = io.Copy(fileWriter, bytes.NewReader(content)); err != nil {
		return "", fmt.Errorf("failed to write file content: %v", err)
	}
	if err := multipartWriter.WriteField("output_format", "application/json"); err != nil {
		return "", fmt.Errorf("failed to write output format: %v", err)
	}
	multipartWriter.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/general/v0/general", &requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", multipartWriter.FormDataContentType())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("partition service error: %s: %s", resp.Status, string(body))
	}

	var elements []element
	if err := json.NewDecoder(resp.Body).Decode(&elements); err != nil {
		return "", fmt.Errorf("failed to parse response: %v", err)
	}

	var b strings.Builder
	for _, el := range elements {
		text := strings.TrimSpace(el.Text)
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}
