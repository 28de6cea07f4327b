package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.0-flash"

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

func (p *GeminiProvider) Close() {
	p.client.Close()
}

func (p *GeminiProvider) ParseDeliveryRequest(ctx context.Context, message string, currentContext map[string]string) (*DeliveryIntent, error) {
	fullPrompt := fmt.Sprintf("%s\n\nCustomer Message: %s", buildSystemPrompt(currentContext), message)

	resp, err := p.model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}
	return parseIntent(responseText.String())
}

func parseIntent(raw string) (*DeliveryIntent, error) {
	cleaned := cleanJSONString(raw)
	var intent DeliveryIntent
	if err := json.Unmarshal([]byte(cleaned), &intent); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleaned)
	}
	switch intent.Intent {
	case IntentQuote, IntentClarification, IntentChat:
	default:
		intent.Intent = IntentClarification
	}
	if intent.Hours < 0 {
		intent.Hours = 0
	}
	if intent.WeightKg < 0 {
		intent.WeightKg = 0
	}
	return &intent, nil
}

func buildSystemPrompt(ctxMap map[string]string) string {
	currentTime := ctxMap["current_time"]
	userLocation := ctxMap["user_location"]
	knownRoute := ctxMap["known_route"]

	if currentTime == "" {
		currentTime = "UNKNOWN_TIME"
	}
	if userLocation == "" {
		userLocation = "UNKNOWN_LOCATION"
	}
	if knownRoute == "" {
		knownRoute = "NONE"
	}

	return fmt.Sprintf(`Role: You take delivery orders for "Pabili", a motorcycle errand and delivery service in the Philippines.
Context:
- Current System Time: %s
- Customer Location: %s
- Route already on file: %s

Tariff (for your replies only, never compute the total yourself):
- Delivery: PHP 60 base covers the first 4 km, then PHP 15 per km.
- Buyer service (rider shops for the customer): PHP 60 per hour.
- Buyer service cargo above 7 kg: PHP 10 per extra kg.

RULES:
1. A quote needs a DESTINATION and a START.
   - "from here", "my place", "where I am" -> "use_my_location": true, "start_address": null.
   - Only use "use_my_location" if Customer Location is not UNKNOWN_LOCATION; otherwise ask for the start address.
   - If the route on file already answers a missing end, reuse it.
2. BUYER SERVICE:
   - "pabili", "buy for me", "pakibili", "shop for me" -> "buyer_service": true.
   - When buyer_service is true, extract "hours" (estimate of shopping time) and "weight_kg".
   - If hours are missing, ask. If weight is missing, assume 0.
   - When buyer_service is false, set hours and weight_kg to 0.
3. If anything required is missing set "intent": "clarification" and ask for it in "reply".
4. Small talk without a delivery request -> "intent": "chat".
5. "reply" is short, friendly, in the customer's language (English, Filipino or Taglish). No markdown.

Output JSON Schema:
{
  "intent": "quote" | "clarification" | "chat",
  "start_address": "string or null",
  "use_my_location": boolean,
  "destination": "string or null",
  "buyer_service": boolean,
  "hours": number,
  "weight_kg": number,
  "reply": "string"
}
`, currentTime, userLocation, knownRoute)
}

// cleanJSONString removes markdown code fences if present.
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
