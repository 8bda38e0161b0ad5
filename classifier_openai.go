package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

/* ─── Prompt ─────────────────────────────────────────────────────────── */

// dishSystemPromptTemplate constrains the model to the labels the nutrition
// table knows about, so every answer can be looked up.
const dishSystemPromptTemplate = `You are a food recognition assistant. Look at the meal photo and pick the single best matching dish from this list:
%s

Return a JSON object with:
- "dish" (string, exactly one entry from the list)
- "confidence" (integer 1-5: 5=clearly visible and unambiguous, 3=reasonable guess, 1=very uncertain)

Only return {"error": "unrecognized"} if the photo does not show food at all.
Return only valid JSON, no explanation.`

// dishClassification is the structured reply the prompt asks for.
type dishClassification struct {
	Dish       string `json:"dish"`
	Confidence int    `json:"confidence"`
	Error      string `json:"error"`
}

/* ─── Classifier ─────────────────────────────────────────────────────── */

// openAIClassifier asks a vision-capable chat model to label the photo.
type openAIClassifier struct {
	client *openai.Client
	model  string
	labels []string
}

// newOpenAIClassifier builds a classifier against the OpenAI API. baseURL is
// overridable for tests; empty keeps the library default.
func newOpenAIClassifier(apiKey, baseURL, model string, labels []string) *openAIClassifier {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &openAIClassifier{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		labels: labels,
	}
}

func (c *openAIClassifier) Classify(ctx context.Context, img mealImage) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("empty image")
	}

	contentType := img.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(img.Data)
	}
	dataURI := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(dishSystemPromptTemplate, "- "+strings.Join(c.labels, "\n- ")),
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURI,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	var out dishClassification
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return "", fmt.Errorf("unmarshal classification: %w", err)
	}
	if out.Error == "unrecognized" {
		return "", nil
	}
	return out.Dish, nil
}
