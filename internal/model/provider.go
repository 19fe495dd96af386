package model

import (
	"errors"
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderAuto     = Provider("auto")
	ProviderOpenAI   = Provider("openai")
	ProviderGemini   = Provider("gemini")
	ProviderDeepSeek = Provider("deepseek")
)

var ErrUnknownProvider = errors.New("unknown provider")

var Providers = []Provider{ProviderAuto, ProviderOpenAI, ProviderGemini, ProviderDeepSeek}

func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderAuto:
		return ProviderAuto, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGemini:
		return ProviderGemini, nil
	case ProviderDeepSeek:
		return ProviderDeepSeek, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
}

func (p Provider) Title() string {
	return strings.ToUpper(string(p))
}
