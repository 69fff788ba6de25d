package properties

import (
	"context"
	"fmt"
	"strings"

	"github.com/Marser321/punta-360-sub001/internal/concierge"
)

const describeSystemPrompt = `Sos un redactor inmobiliario de Punta360, una inmobiliaria
de Punta del Este, Uruguay. Escribís descripciones de propiedades en español rioplatense:
cálidas, concretas y sin exagerar. Dos o tres párrafos, sin listas ni títulos.
Mencioná la zona, los ambientes y las comodidades que se te dan. No inventes datos.`

// DescriptionGenerator drafts listing copy with the concierge's LLM.
type DescriptionGenerator struct {
	client    concierge.LLMClient
	model     string
	maxTokens int32
}

// NewDescriptionGenerator builds a generator over any LLM client.
func NewDescriptionGenerator(client concierge.LLMClient, model string) *DescriptionGenerator {
	if client == nil {
		panic("properties: llm client required")
	}
	return &DescriptionGenerator{
		client:    client,
		model:     model,
		maxTokens: 600,
	}
}

// Generate returns a fresh Spanish description for the listing. Unlike the
// chat path, errors surface to the caller: this runs from the admin panel
// where the agent can simply retry.
func (g *DescriptionGenerator) Generate(ctx context.Context, property *Property) (string, error) {
	resp, err := g.client.Complete(ctx, concierge.LLMRequest{
		Model:  g.model,
		System: []string{describeSystemPrompt},
		Messages: []concierge.ChatMessage{
			{Role: concierge.ChatRoleUser, Content: describeUserPrompt(property)},
		},
		MaxTokens:   g.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("properties: description generation failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("properties: description generation returned no text")
	}
	return text, nil
}

func describeUserPrompt(property *Property) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Escribí la descripción para esta propiedad:\n")
	fmt.Fprintf(&b, "Título: %s\n", property.Title)
	if property.Location != "" {
		fmt.Fprintf(&b, "Zona: %s\n", property.Location)
	}
	if property.PriceUSD > 0 {
		fmt.Fprintf(&b, "Precio: USD %d\n", property.PriceUSD)
	}
	if property.Bedrooms > 0 {
		fmt.Fprintf(&b, "Dormitorios: %d\n", property.Bedrooms)
	}
	if property.Bathrooms > 0 {
		fmt.Fprintf(&b, "Baños: %d\n", property.Bathrooms)
	}
	if property.AreaM2 > 0 {
		fmt.Fprintf(&b, "Superficie: %d m2\n", property.AreaM2)
	}
	if property.Summary != "" {
		fmt.Fprintf(&b, "Resumen del agente: %s\n", property.Summary)
	}
	if len(property.Amenities) > 0 {
		fmt.Fprintf(&b, "Comodidades: %s\n", strings.Join(property.Amenities, ", "))
	}
	return b.String()
}
