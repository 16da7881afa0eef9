// Package extraction calls an OpenAI-compatible chat completions endpoint to read busy or
// free time out of an uploaded schedule document.
package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bettercorq/internal/availability"
	"bettercorq/internal/domain"
)

const (
	DefaultURL     = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel   = "google/gemini-2.5-pro"
	DefaultTimeout = 60 * time.Second
)

const prompt = `Read this weekly class schedule. Reply with JSON only, no prose, in the form
{"busy": {"Mon": [["09:00", "10:30"]], "Tue": []}}
Keys are three letter English weekday names (Sun Mon Tue Wed Thu Fri Sat) and every pair is a
busy block in 24-hour HH:MM. Include every class, lab and tutorial.`

// Config configures the extractor. Grid fields bound and align the free time it returns.
type Config struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration

	Granularity domain.Granularity
	DayStart    domain.TimeOfDay
	DayEnd      domain.TimeOfDay
}

type httpExtractor struct {
	client *http.Client
	cfg    Config
	logger *slog.Logger
}

// NewHTTPExtractor returns an Extractor backed by a chat completions API.
func NewHTTPExtractor(client *http.Client, cfg Config, logger *slog.Logger) domain.Extractor {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &httpExtractor{client: client, cfg: cfg, logger: logger}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// schedule is the JSON the model is asked for. Some models answer with free time or a list
// of classes instead, so those shapes are accepted too.
type schedule struct {
	Busy    map[string][][2]string `json:"busy"`
	Free    map[string][][2]string `json:"free"`
	Classes []struct {
		Name  string `json:"name"`
		Day   string `json:"day"`
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"classes"`
}

func (e *httpExtractor) Extract(ctx context.Context, doc domain.Document) (domain.FreeTimeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	content, err := e.complete(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailure, err)
	}
	free, err := e.freeTime(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailure, err)
	}
	return free, nil
}

func (e *httpExtractor) complete(ctx context.Context, doc domain.Document) (string, error) {
	if len(doc.Data) == 0 {
		return "", fmt.Errorf("document %q is empty", doc.Filename)
	}
	contentType := doc.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(doc.Data)
	}
	body, err := json.Marshal(chatRequest{
		Model: e.cfg.Model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(doc.Data)}},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("extraction service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var data chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode extraction response: %w", err)
	}
	if data.Error != nil {
		return "", fmt.Errorf("extraction service error: %s", data.Error.Message)
	}
	if len(data.Choices) == 0 || strings.TrimSpace(data.Choices[0].Message.Content) == "" {
		return "", errors.New("extraction response has no content")
	}
	return data.Choices[0].Message.Content, nil
}

// freeTime turns the model's answer into grid-aligned free time.
func (e *httpExtractor) freeTime(content string) (domain.FreeTimeResult, error) {
	var s schedule
	if err := json.Unmarshal([]byte(stripFences(content)), &s); err != nil {
		return nil, fmt.Errorf("failed to parse schedule: %w", err)
	}

	if len(s.Free) > 0 {
		free, err := snapFree(s.Free, e.cfg.DayStart, e.cfg.DayEnd, e.cfg.Granularity)
		e.warn("dropped free time entries", err)
		return free, nil
	}

	if s.Busy == nil && len(s.Classes) == 0 {
		return nil, errors.New("schedule has neither busy nor free time")
	}
	busy := make(map[string][][2]string, len(s.Busy))
	for day, blocks := range s.Busy {
		busy[day] = append(busy[day], blocks...)
	}
	for _, c := range s.Classes {
		busy[c.Day] = append(busy[c.Day], [2]string{c.Start, c.End})
	}
	free, err := availability.FreeFromBusy(busy, e.cfg.DayStart, e.cfg.DayEnd, e.cfg.Granularity)
	e.warn("dropped busy entries", err)
	return free, nil
}

func (e *httpExtractor) warn(msg string, err error) {
	if err != nil && e.logger != nil {
		e.logger.Warn(msg, "err", err)
	}
}

// snapFree normalises weekday keys and shrinks every window to the grid.
func snapFree(in map[string][][2]string, dayStart, dayEnd domain.TimeOfDay, g domain.Granularity) (domain.FreeTimeResult, error) {
	out := make(domain.FreeTimeResult)
	var errs []error
	for name, pairs := range in {
		wd, err := availability.ParseWeekday(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		key := availability.ShortWeekday(wd)
		if out[key] == nil {
			out[key] = [][2]string{}
		}
		for _, p := range pairs {
			from, ferr := domain.ParseTimeOfDay(p[0])
			to, terr := domain.ParseTimeOfDay(p[1])
			if ferr != nil || terr != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, errors.Join(ferr, terr)))
				continue
			}
			from, to = g.Ceil(max(from, dayStart)), g.Floor(min(to, dayEnd))
			if from >= to {
				continue
			}
			out[key] = append(out[key], [2]string{from.String(), to.String()})
		}
	}
	return out, errors.Join(errs...)
}

// stripFences removes a surrounding markdown code fence, which chat models often add.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
