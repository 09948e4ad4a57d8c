package ollama

import "testing"

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("", "")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.GetModel() != "llama3.1:latest" {
		t.Errorf("default model = %q", c.GetModel())
	}
	if c.baseURL != "http://localhost:11434" {
		t.Errorf("default baseURL = %q", c.baseURL)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	if _, err := NewClient("://bad", "m"); err == nil {
		t.Error("invalid URL should fail")
	}
}

func TestModelSupportsToolCalling(t *testing.T) {
	tests := []struct {
		model    string
		expected bool
	}{
		{model: "llama3.1:8b", expected: true},
		{model: "llama3.2:3b", expected: true},
		{model: "llama3.3:latest", expected: true},
		{model: "llama3:latest", expected: false},
		{model: "llama3-gradient", expected: false},
		{model: "qwen2.5-coder", expected: true},
		{model: "Mistral:latest", expected: true},
		{model: "codellama:13b", expected: false},
		{model: "gemma:2b", expected: false},
		{model: "unknown-model", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := ModelSupportsToolCalling(tt.model); got != tt.expected {
				t.Errorf("ModelSupportsToolCalling(%q) = %v, want %v", tt.model, got, tt.expected)
			}
		})
	}
}
