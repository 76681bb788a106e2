package providerspec

import (
	"fmt"

	"github.com/siumai-go/siumai/internal/types"
)

// OpenAISpec implements Spec for OpenAI's Chat Completions API and is
// reused, unmodified, by every OpenAI-compatible vendor under a
// different BaseURL/EnvVar.
type OpenAISpec struct {
	ProviderID string
	Base       string
}

// NewOpenAISpec returns the spec for api.openai.com.
func NewOpenAISpec() *OpenAISpec {
	return &OpenAISpec{ProviderID: "openai", Base: "https://api.openai.com/v1"}
}

func (s *OpenAISpec) ID() string      { return s.ProviderID }
func (s *OpenAISpec) BaseURL() string { return s.Base }

func (s *OpenAISpec) Endpoint(op Operation, req *types.ChatRequest, baseOverride string) (string, error) {
	base := s.Base
	if baseOverride != "" {
		base = baseOverride
	}
	switch op {
	case OpChat, OpChatStream:
		return base + "/chat/completions", nil
	case OpEmbed:
		return base + "/embeddings", nil
	case OpImage:
		return base + "/images/generations", nil
	case OpAudioTTS:
		return base + "/audio/speech", nil
	case OpAudioSTT:
		return base + "/audio/transcriptions", nil
	case OpFilesUpload:
		return base + "/files", nil
	case OpFilesContent:
		return base + "/files/{id}/content", nil
	case OpFilesGet, OpFilesDelete:
		return base + "/files/{id}", nil
	case OpRerank:
		return "", fmt.Errorf("%s: rerank not supported", s.ProviderID)
	case OpVideo:
		return "", fmt.Errorf("%s: video not supported", s.ProviderID)
	default:
		return "", fmt.Errorf("%s: unsupported operation %q", s.ProviderID, op)
	}
}

func (s *OpenAISpec) BuildHeaders(apiKey string, extra map[string]string) map[string]string {
	base := map[string]string{
		"Authorization": "Bearer " + apiKey,
		"Content-Type":  "application/json",
	}
	return mergeHeaders(base, extra)
}

func (s *OpenAISpec) SSEDoneMarker() string { return "[DONE]" }

// OpenAIResponsesSpec implements Spec for OpenAI's Responses API,
// sharing auth/header conventions with OpenAISpec but a distinct
// endpoint and no [DONE] sentinel (it terminates on a named
// response.completed event instead).
type OpenAIResponsesSpec struct {
	Base string
}

func NewOpenAIResponsesSpec() *OpenAIResponsesSpec {
	return &OpenAIResponsesSpec{Base: "https://api.openai.com/v1"}
}

func (s *OpenAIResponsesSpec) ID() string      { return "openai-responses" }
func (s *OpenAIResponsesSpec) BaseURL() string { return s.Base }

func (s *OpenAIResponsesSpec) Endpoint(op Operation, req *types.ChatRequest, baseOverride string) (string, error) {
	base := s.Base
	if baseOverride != "" {
		base = baseOverride
	}
	if op == OpChat || op == OpChatStream {
		return base + "/responses", nil
	}
	return "", fmt.Errorf("openai-responses: unsupported operation %q", op)
}

func (s *OpenAIResponsesSpec) BuildHeaders(apiKey string, extra map[string]string) map[string]string {
	base := map[string]string{
		"Authorization": "Bearer " + apiKey,
		"Content-Type":  "application/json",
	}
	return mergeHeaders(base, extra)
}

func (s *OpenAIResponsesSpec) SSEDoneMarker() string { return "" }
