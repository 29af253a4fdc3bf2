package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"
)

// SystemInstruction frames every classification request.
const SystemInstruction = `You are the Practice Management Engine for "Sasingian LegalOS," a comprehensive practice management solution for a high-performance law firm in Port Moresby.

OBJECTIVE: Analyze legal operational data from unstructured records and map them to MATTERS for onboarding.

STRICT OPERATING RULES:
1. MATTERS: Treat every input as a 'Matter' or 'Legal Case'. Extract Case Number and Client Name as the primary identifiers.
2. FINANCIALS:
   - Apply PNG GST (10%).
   - Identify if the input mentions Trust Funds, Retainers, or Deposits. Map these to 'trust_balance'.
   - Determine if the entry is 'Billable' based on the professional activity described.
3. TRUST COMPLIANCE: If a client pays a retainer, it MUST be recorded in the 'financials.trust_balance' field to satisfy statutory requirements.
4. TAX: All currency is PNG Kina (K). Calculate tax_amount as 0.1 * suggested_fee.

The output MUST be a valid JSON object matching the provided schema.`

const promptPrefix = "Extract Matter details from this legal operational data: "

// Classifier calls the Gemini generateContent endpoint with a structured
// response schema.
type Classifier struct {
	client   *genai.Client
	model    string
	validate *validator.Validate
}

// Option adjusts the Gemini client configuration.
type Option func(*genai.ClientConfig)

// WithBaseURL points the client at another Gemini API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPClient = client
	}
}

// New creates a classifier for model.
func New(ctx context.Context, apiKey, model string, validate *validator.Validate, opts ...Option) (*Classifier, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Classifier{client: client, model: strings.TrimPrefix(model, "models/"), validate: validate}, nil
}

var _ portsrepo.Classifier = (*Classifier)(nil)

func (c *Classifier) Classify(ctx context.Context, narrative string, image *domain.ImageInput) (*domain.Classification, error) {
	parts := []*genai.Part{genai.NewPartFromText(promptPrefix + narrative)}
	if image != nil && len(image.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(image.Data, image.MimeType))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema(),
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %v", apperrors.ErrExtraction, err)
	}
	return c.decode(resp)
}

func (c *Classifier) decode(resp *genai.GenerateContentResponse) (*domain.Classification, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: empty response", apperrors.ErrExtraction)
	}
	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			text.WriteString(p.Text)
		}
	}

	raw := stripFence(text.String())
	var out domain.Classification
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: invalid output format from processing engine: %v", apperrors.ErrExtraction, err)
	}
	if c.validate != nil {
		if err := c.validate.Struct(out); err != nil {
			return nil, fmt.Errorf("%w: response does not match schema: %v", apperrors.ErrExtraction, err)
		}
	}
	return &out, nil
}

// stripFence removes a surrounding markdown code fence, which some models
// add even when asked for JSON.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func enumOf[T ~string](values ...T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func responseSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	num := func() *genai.Schema { return &genai.Schema{Type: genai.TypeNumber} }
	boolean := func() *genai.Schema { return &genai.Schema{Type: genai.TypeBoolean} }
	oneOf := func(values []string) *genai.Schema { return &genai.Schema{Type: genai.TypeString, Enum: values} }

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"task_metadata": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":           str(),
					"category":        oneOf(enumOf(domain.CategoryLegal, domain.CategoryAdmin, domain.CategoryFinance, domain.CategoryHR)),
					"priority":        oneOf(enumOf(domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow)),
					"case_number":     str(),
					"client_name":     str(),
					"lawyer_assigned": str(),
					"deadline":        str(),
				},
				Required: []string{"title", "category", "priority"},
			},
			"workflow": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"stage":           oneOf(enumOf(domain.Stages...)),
					"estimated_hours": num(),
					"billable_hours":  num(),
					"is_billable":     boolean(),
				},
				Required: []string{"stage", "estimated_hours", "billable_hours", "is_billable"},
			},
			"financials": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"suggested_fee":   num(),
					"tax_amount":      num(),
					"total_inclusive": num(),
					"billing_type":    oneOf(enumOf(domain.BillingFixed, domain.BillingHourly, domain.BillingTrust)),
					"trust_balance":   num(),
					"is_invoiced":     boolean(),
				},
				Required: []string{"suggested_fee", "tax_amount", "total_inclusive", "billing_type", "trust_balance", "is_invoiced"},
			},
		},
		Required: []string{"task_metadata", "workflow", "financials"},
	}
}
