package llm

// GenerationSettings are the sampling parameters sent with every request.
type GenerationSettings struct {
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

func DefaultGenerationSettings() GenerationSettings {
	return GenerationSettings{
		Temperature:     0.7,
		TopP:            0.8,
		TopK:            40,
		MaxOutputTokens: 8192,
	}
}

// Provider names accepted by configuration.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// CandidateModels returns the selection order for provider, starting
// with preferred.
func CandidateModels(provider, preferred string) []string {
	var fallbacks []string
	switch provider {
	case ProviderGemini:
		fallbacks = []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro", "text-bison"}
	case ProviderOpenAI:
		fallbacks = []string{"gpt-4o-mini", "gpt-3.5-turbo"}
	}
	return dedupe(append([]string{preferred}, fallbacks...))
}
