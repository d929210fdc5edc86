package mlserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mhcho/manualhub/internal/core/domain"
	"github.com/mhcho/manualhub/internal/infrastructure/resilience"
)

// Client talks to the external manual-processing service. The service
// indexes uploaded manuals under their doc_name (the model name) and
// answers questions against the indexed content.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	exec       *resilience.Executor
}

// Processing a manual can take minutes; the overall timeout is generous
// while the dial timeout stays short so a dead host fails fast.
func New(baseURL, apiKey string, exec *resilience.Executor) *Client {
	dialer := &net.Dialer{Timeout: 30 * time.Second}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
			Transport: &http.Transport{
				DialContext: dialer.DialContext,
			},
		},
		exec: exec,
	}
}

// acceptedUploadReplies are the service responses that mean the manual was
// indexed. Anything else is a processing rejection even on HTTP 200.
var acceptedUploadReplies = []string{
	"completed",
	"pdf uploaded successfully",
	"upload succeeded",
}

func (c *Client) Submit(ctx context.Context, docName, filename string, file io.Reader) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create upload part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("buffer upload: %w", err)
	}
	if err := writer.WriteField("doc_name", docName); err != nil {
		return fmt.Errorf("write doc_name field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish upload body: %w", err)
	}

	return c.exec.Execute(ctx, "ml_submit", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/manuals/upload", bytes.NewReader(buf.Bytes()))
		if err != nil {
			return fmt.Errorf("create upload request: %w", err)
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("x-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return domain.WrapError(domain.ErrUnreachable, "submit manual", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return httpStatusError("submit manual", resp)
		}

		reply := readReply(resp.Body)
		for _, accepted := range acceptedUploadReplies {
			if strings.EqualFold(reply, accepted) {
				return nil
			}
		}
		return domain.WrapError(domain.ErrProcessingFailed, "submit manual",
			fmt.Errorf("service replied %q", reply))
	}, classifyError)
}

func (c *Client) Ask(ctx context.Context, docName, question string) (*domain.Answer, error) {
	payload, err := json.Marshal(map[string]string{
		"doc_name": docName,
		"question": question,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal question: %w", err)
	}

	var answer domain.Answer
	err = c.exec.Execute(ctx, "ml_ask", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/manual", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("create question request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return domain.WrapError(domain.ErrUnreachable, "ask question", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return httpStatusError("ask question", resp)
		}
		if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
			return domain.WrapError(domain.ErrNoResponse, "ask question", err)
		}
		if strings.TrimSpace(answer.Answer) == "" {
			return domain.WrapError(domain.ErrNoResponse, "ask question",
				fmt.Errorf("empty answer for %q", docName))
		}
		return nil
	}, classifyError)
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// readReply extracts the service's status text. Replies come either as bare
// text or wrapped in a {"message": ...} envelope.
func readReply(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 2048))
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
		return strings.TrimSpace(envelope.Message)
	}
	return strings.TrimSpace(string(raw))
}

func httpStatusError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(body))
	err := fmt.Errorf("status %s", resp.Status)
	if msg != "" {
		err = fmt.Errorf("status %s: %s", resp.Status, msg)
	}
	if resp.StatusCode >= 500 {
		return domain.WrapError(domain.ErrUnreachable, operation, err)
	}
	return domain.WrapError(domain.ErrProcessingFailed, operation, err)
}

// classifyError keeps processing rejections out of the breaker's failure
// count; only connectivity problems should trip the circuit.
func classifyError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if domain.IsKind(err, domain.ErrUnreachable) {
		return resilience.ErrorClassification{RecordFailure: true}
	}
	return resilience.ErrorClassification{RecordFailure: false}
}
