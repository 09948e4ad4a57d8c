package provider

import (
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
)

func sampleTools() []mcptypes.Tool {
	return []mcptypes.Tool{
		{
			Name:        "create_reminder",
			Description: "Create a reminder",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"title": map[string]any{"type": "string", "description": "What to be reminded about"},
					"alert_minutes_before": map[string]any{"type": "number"},
				},
				Required: []string{"title"},
			},
		},
		{
			Name:        "list_reminders",
			Description: "List reminders",
			InputSchema: mcptypes.ToolInputSchema{
				Type:       "object",
				Properties: map[string]any{},
			},
		},
	}
}

func TestConvertToolsToAnthropic(t *testing.T) {
	if got := ConvertToolsToAnthropic(nil); got != nil {
		t.Errorf("nil input should convert to nil, got %v", got)
	}

	result := ConvertToolsToAnthropic(sampleTools())
	if len(result) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(result))
	}

	first := result[0].OfTool
	if first == nil {
		t.Fatal("expected a plain tool variant")
	}
	if first.Name != "create_reminder" {
		t.Errorf("name = %q", first.Name)
	}
	if first.Description.Value != "Create a reminder" {
		t.Errorf("description = %q", first.Description.Value)
	}
	if len(first.InputSchema.Required) != 1 || first.InputSchema.Required[0] != "title" {
		t.Errorf("required = %v", first.InputSchema.Required)
	}
}

func TestConvertToolsToOpenAI(t *testing.T) {
	if got := ConvertToolsToOpenAI(nil); got != nil {
		t.Errorf("nil input should convert to nil, got %v", got)
	}

	result := ConvertToolsToOpenAI(sampleTools())
	if len(result) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(result))
	}

	fn := result[0].OfFunction
	if fn == nil {
		t.Fatal("expected a function tool variant")
	}
	if fn.Function.Name != "create_reminder" {
		t.Errorf("name = %q", fn.Function.Name)
	}
	params := fn.Function.Parameters
	if params["type"] != "object" {
		t.Errorf("parameters type = %v", params["type"])
	}
	if req, ok := params["required"].([]string); !ok || len(req) != 1 {
		t.Errorf("required = %v", params["required"])
	}

	// No required properties: the key is omitted entirely.
	if _, ok := result[1].OfFunction.Function.Parameters["required"]; ok {
		t.Error("empty required list should be omitted")
	}
}

func TestConvertToolsToOllama(t *testing.T) {
	result := ConvertToolsToOllama(sampleTools())
	if len(result) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(result))
	}

	tool := result[0]
	if tool.Type != "function" {
		t.Errorf("type = %q", tool.Type)
	}
	if tool.Function.Name != "create_reminder" {
		t.Errorf("name = %q", tool.Function.Name)
	}

	prop, ok := tool.Function.Parameters.Properties["title"]
	if !ok {
		t.Fatal("title property missing")
	}
	if len(prop.Type) != 1 || prop.Type[0] != "string" {
		t.Errorf("title type = %v", prop.Type)
	}
	if prop.Description != "What to be reminded about" {
		t.Errorf("title description = %q", prop.Description)
	}
}

func TestConvertOllamaPropertyTypeList(t *testing.T) {
	prop := convertOllamaProperty(map[string]any{
		"type": []any{"string", "null"},
		"enum": []any{"a", "b"},
	})
	if len(prop.Type) != 2 {
		t.Errorf("type = %v", prop.Type)
	}
	if len(prop.Enum) != 2 {
		t.Errorf("enum = %v", prop.Enum)
	}
}

func TestConvertOllamaPropertyNonMap(t *testing.T) {
	// A typed schema value survives via the JSON round trip.
	type schema struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	}
	prop := convertOllamaProperty(schema{Type: "number", Description: "count"})
	if len(prop.Type) != 1 || prop.Type[0] != "number" {
		t.Errorf("type = %v", prop.Type)
	}
	if prop.Description != "count" {
		t.Errorf("description = %q", prop.Description)
	}

	var empty api.ToolProperty
	if got := convertOllamaProperty(make(chan int)); len(got.Type) != len(empty.Type) {
		t.Error("unmarshalable value should yield the zero property")
	}
}
