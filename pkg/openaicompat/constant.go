package openaicompat

import "time"

// DefaultTimeout is the default HTTP client timeout
const DefaultTimeout = 30 * time.Second

// Preset holds the endpoint and default model of a known vendor.
type Preset struct {
	BaseURL string
	Model   string
}

// Presets are the OpenAI-compatible vendors the factory knows by name.
var Presets = map[string]Preset{
	"qwen":     {BaseURL: "https://dashscope-intl.aliyuncs.com/compatible-mode/v1", Model: "qwen-plus"},
	"deepseek": {BaseURL: "https://api.deepseek.com/v1", Model: "deepseek-chat"},
	"openai":   {BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini"},
}
