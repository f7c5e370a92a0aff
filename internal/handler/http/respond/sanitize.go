package respond

import (
	"regexp"
)

var (
	// Order matters: the Anthropic pattern is more specific than the OpenAI one.
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	// Does not match keys that were already masked (contain '*').
	openaiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9-_]{10,}`)

	// Google API keys, used by Gemini.
	googleKeyPattern = regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`)

	// key=... query parameters in logged request URLs
	keyParamPattern = regexp.MustCompile(`([?&]key=)[^&\s"]+`)
)

// SanitizeError returns the error message with API keys masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = googleKeyPattern.ReplaceAllString(msg, "AIza****")
	msg = keyParamPattern.ReplaceAllString(msg, "${1}****")

	return msg
}
