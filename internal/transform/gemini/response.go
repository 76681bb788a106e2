package gemini

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// Response is the wire shape of a non-streaming generateContent result.
type Response struct {
	Candidates     []Candidate     `json:"candidates"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata"`
	ModelVersion   string          `json:"modelVersion"`
}

type Candidate struct {
	Content          Content          `json:"content"`
	FinishReason     string           `json:"finishReason"`
	GroundingMetadata json.RawMessage `json:"groundingMetadata,omitempty"`
}

type UsageMetadata struct {
	PromptTokenCount        int `json:"promptTokenCount"`
	CandidatesTokenCount    int `json:"candidatesTokenCount"`
	TotalTokenCount         int `json:"totalTokenCount"`
	CachedContentTokenCount int `json:"cachedContentTokenCount"`
	ThoughtsTokenCount      int `json:"thoughtsTokenCount"`
}

// ParseResponse decodes a Gemini generateContent body into a unified
// ChatResponse.
func ParseResponse(data []byte) (*types.ChatResponse, error) {
	var wire Response
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, types.Wrap(types.KindProtocolError, "gemini", err)
	}
	if len(wire.Candidates) == 0 {
		return nil, types.NewError(types.KindProtocolError, "gemini", "response had no candidates")
	}

	candidate := wire.Candidates[0]
	resp := &types.ChatResponse{Model: wire.ModelVersion}

	var parts []types.ContentPart
	for _, p := range candidate.Content.Parts {
		switch {
		case p.FunctionCall != nil:
			resp.ToolCalls = append(resp.ToolCalls, types.ToolCall{
				Name: p.FunctionCall.Name, Arguments: string(p.FunctionCall.Args),
			})
		case p.Text != "":
			parts = append(parts, types.ContentPart{Kind: types.ContentText, Text: p.Text})
		}
	}
	if len(parts) > 0 {
		resp.Content = types.NewMultiContent(parts...)
	}
	resp.FinishReason = normalizeFinishReason(candidate.FinishReason, len(resp.ToolCalls) > 0)

	if len(candidate.GroundingMetadata) > 0 {
		resp.ProviderMetadata = map[string]json.RawMessage{
			"gemini": mustWrap("grounding_metadata", candidate.GroundingMetadata),
		}
	}

	if wire.UsageMetadata != nil {
		resp.Usage = types.Usage{
			PromptTokens:     wire.UsageMetadata.PromptTokenCount,
			CompletionTokens: wire.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      wire.UsageMetadata.TotalTokenCount,
		}
		if wire.UsageMetadata.CachedContentTokenCount > 0 {
			c := wire.UsageMetadata.CachedContentTokenCount
			resp.Usage.Cached = &c
		}
		if wire.UsageMetadata.ThoughtsTokenCount > 0 {
			r := wire.UsageMetadata.ThoughtsTokenCount
			resp.Usage.Reasoning = &r
		}
	}

	return resp, nil
}

func mustWrap(key string, raw json.RawMessage) json.RawMessage {
	b, _ := json.Marshal(map[string]json.RawMessage{key: raw})
	return b
}

func normalizeFinishReason(raw string, hasToolCalls bool) types.FinishReason {
	if hasToolCalls {
		return types.FinishReason{Kind: types.FinishToolCalls}
	}
	switch raw {
	case "STOP", "":
		return types.FinishReason{Kind: types.FinishStop}
	case "MAX_TOKENS":
		return types.FinishReason{Kind: types.FinishLength}
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII":
		return types.FinishReason{Kind: types.FinishContentFilter}
	default:
		return types.FinishReason{Kind: types.FinishOther, Raw: raw}
	}
}
