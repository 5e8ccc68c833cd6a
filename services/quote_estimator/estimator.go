package quote_estimator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"subercraftex/config"
	bookingModel "subercraftex/models/booking"
	bookingService "subercraftex/services/booking"

	"google.golang.org/genai"
)

// GeminiEstimator drafts quotes with the Gemini API.
type GeminiEstimator struct {
	client *genai.Client
	model  string
}

// New returns nil when no API key is configured, leaving estimation disabled.
func New(ctx context.Context, cfg config.GeminiConfig) (*GeminiEstimator, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiEstimator{client: client, model: cfg.Model}, nil
}

func (g *GeminiEstimator) Estimate(ctx context.Context, b *bookingModel.Booking) (*bookingService.Estimate, error) {
	result, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(buildPrompt(b)),
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.2)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate estimate: %w", err)
	}
	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("empty response from Gemini")
	}
	return parseEstimate(text)
}

func buildPrompt(b *bookingModel.Booking) string {
	var sb strings.Builder
	sb.WriteString("You price work for a craft and repair workshop. Return ONLY valid JSON in the form\n")
	sb.WriteString(`{"material_cost": number, "labor_cost": number, "notes": string}` + "\n\n")
	fmt.Fprintf(&sb, "Service: %s\n", b.Service.Name)
	if b.Service.Description != "" {
		fmt.Fprintf(&sb, "Service description: %s\n", b.Service.Description)
	}
	fmt.Fprintf(&sb, "Job type: %s\n", strings.ReplaceAll(string(b.ServiceType), "_", " "))
	if b.Notes != nil && *b.Notes != "" {
		fmt.Fprintf(&sb, "Customer notes: %s\n", *b.Notes)
	}
	if len(b.Materials) > 0 {
		sb.WriteString("Reserved materials:\n")
		for _, m := range b.Materials {
			fmt.Fprintf(&sb, "- %d %s of %s at %.2f\n", m.Quantity, m.Material.Unit, m.Material.Name, m.PriceAtBooking)
		}
	}
	return sb.String()
}

func parseEstimate(text string) (*bookingService.Estimate, error) {
	var est bookingService.Estimate
	if err := json.Unmarshal([]byte(extractJSONFromMarkdown(text)), &est); err != nil {
		return nil, fmt.Errorf("failed to parse estimate: %w", err)
	}
	if est.MaterialCost < 0 || est.LaborCost < 0 {
		return nil, fmt.Errorf("estimate has negative amounts")
	}
	return &est, nil
}

// extractJSONFromMarkdown strips a ``` or ```json fence around the payload.
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") {
		return text
	}
	text = strings.TrimSuffix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	return strings.TrimSpace(text)
}
