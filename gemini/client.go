// Package gemini wraps the Gemini API for describing fashion designs and
// predicting their market trend.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fashionflow/models"
	"fashionflow/utils"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var (
	// ErrEmptyResponse means the model returned no text.
	ErrEmptyResponse = errors.New("no content received from AI")
	// ErrMalformedResponse means the model's text held no usable JSON.
	ErrMalformedResponse = errors.New("failed to parse AI response format")
)

// contentGenerator is the part of *genai.GenerativeModel the client calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Options configure NewClient.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client talks to Gemini. It is safe for concurrent use.
type Client struct {
	client   *genai.Client
	describe contentGenerator
	predict  contentGenerator
	timeout  time.Duration
}

// NewClient creates a long-lived Gemini client. Close it on shutdown.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	describe := client.GenerativeModel(opts.Model)
	describe.ResponseMIMEType = "application/json"
	describe.ResponseSchema = describeSchema
	describe.SetTemperature(0.4)

	predict := client.GenerativeModel(opts.Model)
	predict.ResponseMIMEType = "application/json"
	predict.ResponseSchema = trendSchema
	predict.SetTemperature(0.2)
	predict.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockOnlyHigh},
	}

	return &Client{client: client, describe: describe, predict: predict, timeout: opts.Timeout}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// DescribeDesign asks the model for product copy for an image.
func (c *Client) DescribeDesign(ctx context.Context, mimeType string, data []byte) (*models.DesignDescription, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	format := strings.TrimPrefix(strings.ToLower(mimeType), "image/")
	resp, err := c.describe.GenerateContent(ctx, genai.Text(describePrompt), genai.ImageData(format, data))
	if err != nil {
		return nil, fmt.Errorf("failed to describe design: %w", err)
	}

	var out models.DesignDescription
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	out.Description = strings.TrimSpace(out.Description)
	out.Category = strings.ToLower(utils.CollapseSpaces(out.Category))
	if out.Description == "" {
		return nil, ErrEmptyResponse
	}
	return &out, nil
}

// PredictTrend asks the model for a market outlook of a described product.
func (c *Client) PredictTrend(ctx context.Context, req models.TrendRequest) (*models.TrendPrediction, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.predict.GenerateContent(ctx, genai.Text(constructTrendPrompt(req)))
	if err != nil {
		return nil, fmt.Errorf("failed to predict trend: %w", err)
	}

	var out models.TrendPrediction
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	out.TrendLabel = utils.CollapseSpaces(out.TrendLabel)
	out.Sentiment = utils.CollapseSpaces(out.Sentiment)
	out.ConfidenceLevel = utils.CollapseSpaces(out.ConfidenceLevel)
	out.AnalysisText = strings.TrimSpace(out.AnalysisText)
	prediction := out.WithDefaults()
	return &prediction, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

func decodeResponse(resp *genai.GenerateContentResponse, target any) error {
	text, err := responseText(resp)
	if err != nil {
		return err
	}

	jsonStr := utils.ExtractJSON(text)
	if jsonStr == "" {
		logrus.WithField("response", truncate(text, 200)).Warn("could not extract JSON from Gemini response")
		return ErrMalformedResponse
	}
	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		logrus.WithError(err).WithField("response", truncate(jsonStr, 200)).Warn("error parsing Gemini JSON")
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
