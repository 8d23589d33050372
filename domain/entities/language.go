package entities

// Language is a recognition locale offered to clients
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var supportedLanguages = []Language{
	{Code: "en-US", Name: "English (US)"},
	{Code: "en-GB", Name: "English (UK)"},
	{Code: "hi-IN", Name: "Hindi"},
	{Code: "es-ES", Name: "Spanish"},
	{Code: "fr-FR", Name: "French"},
	{Code: "de-DE", Name: "German"},
	{Code: "it-IT", Name: "Italian"},
	{Code: "pt-BR", Name: "Portuguese (Brazil)"},
	{Code: "ru-RU", Name: "Russian"},
	{Code: "ja-JP", Name: "Japanese"},
	{Code: "ko-KR", Name: "Korean"},
	{Code: "zh-CN", Name: "Chinese (Simplified)"},
}

// SupportedLanguages returns a copy of the fixed language list
func SupportedLanguages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}
