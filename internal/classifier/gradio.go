package classifier

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
)

const (
	DefaultEndpoint = "https://goldphish2209-multilabel-skill-classifier.hf.space/gradio_api"
	DefaultAPIName  = "classify_job_skills"
)

// GradioClient calls a hosted Gradio app through its two-step call API:
// POST the inputs to get an event id, then read the result stream.
type GradioClient struct {
	baseURL    string
	apiName    string
	httpClient *http.Client
}

func NewGradioClient(baseURL, apiName string, timeout time.Duration) *GradioClient {
	if baseURL == "" {
		baseURL = DefaultEndpoint
	}
	if apiName == "" {
		apiName = DefaultAPIName
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GradioClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiName:    strings.TrimPrefix(apiName, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type gradioRequest struct {
	Data []any `json:"data"`
}

type gradioEvent struct {
	EventID string `json:"event_id"`
}

// gradioLabel is the payload of a Label output component.
type gradioLabel struct {
	Label       string `json:"label"`
	Confidences []struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"confidences"`
}

func (c *GradioClient) Classify(ctx context.Context, text string, threshold float64) ([]models.SkillPrediction, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []models.SkillPrediction{}, nil
	}

	eventID, err := c.submit(ctx, text, threshold)
	if err != nil {
		return nil, err
	}
	payload, err := c.result(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return parseLabelOutput(payload, threshold)
}

func (c *GradioClient) submit(ctx context.Context, text string, threshold float64) (string, error) {
	body, err := json.Marshal(gradioRequest{Data: []any{text, threshold}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal classifier request: %w", err)
	}

	url := fmt.Sprintf("%s/call/%s", c.baseURL, c.apiName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read classifier response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var ev gradioEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return "", fmt.Errorf("failed to decode classifier event: %w", err)
	}
	if ev.EventID == "" {
		return "", fmt.Errorf("classifier returned no event id")
	}
	return ev.EventID, nil
}

func (c *GradioClient) result(ctx context.Context, eventID string) ([]byte, error) {
	url := fmt.Sprintf("%s/call/%s/%s", c.baseURL, c.apiName, eventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier result request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("classifier result returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return readCompleteEvent(resp.Body)
}

// readCompleteEvent scans a server-sent event stream and returns the data of
// the "complete" event.
func readCompleteEvent(r io.Reader) ([]byte, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	event := ""
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			event = ""
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			switch event {
			case "complete":
				return []byte(data), nil
			case "error":
				return nil, fmt.Errorf("classifier reported an error: %s", data)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read classifier stream: %w", err)
	}
	return nil, fmt.Errorf("classifier stream ended without a result")
}

// parseLabelOutput accepts either the outputs array or a bare label object.
func parseLabelOutput(payload []byte, threshold float64) ([]models.SkillPrediction, error) {
	payload = bytes.TrimSpace(payload)

	var label gradioLabel
	if bytes.HasPrefix(payload, []byte("[")) {
		var outputs []json.RawMessage
		if err := json.Unmarshal(payload, &outputs); err != nil {
			return nil, fmt.Errorf("failed to decode classifier outputs: %w", err)
		}
		if len(outputs) == 0 || string(outputs[0]) == "null" {
			return []models.SkillPrediction{}, nil
		}
		payload = outputs[0]
	}
	if err := json.Unmarshal(payload, &label); err != nil {
		return nil, fmt.Errorf("failed to decode classifier label: %w", err)
	}

	preds := make([]models.SkillPrediction, 0, len(label.Confidences))
	for _, c := range label.Confidences {
		skill := strings.TrimSpace(c.Label)
		if skill == "" {
			continue
		}
		preds = append(preds, models.SkillPrediction{Skill: skill, Confidence: c.Confidence})
	}

	// threshold applies to the raw score; rounding is for display only
	out := FilterAndSort(preds, threshold)
	for i := range out {
		out[i].Confidence = round2(out[i].Confidence)
	}
	return out, nil
}
