package providerspec

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/siumai-go/siumai/internal/types"
)

// AnthropicSpec implements Spec for Anthropic's Messages API. Unlike
// OpenAI, the model lives in the request body, not the URL, and auth uses x-api-key + anthropic-version instead of Bearer.
type AnthropicSpec struct {
	Base string

	// Betas are anthropic-beta feature flags merged into every request's
	// header, deduped and comma-joined. This is the *static* set applied
	// regardless of request content (normally empty); RequiredBetas
	// derives the additional per-call set the executor merges in via
	// BuildHeadersWithBetas.
	Betas []string
}

func NewAnthropicSpec() *AnthropicSpec {
	return &AnthropicSpec{Base: "https://api.anthropic.com"}
}

const anthropicAPIVersion = "2023-06-01"

func (s *AnthropicSpec) ID() string      { return "anthropic" }
func (s *AnthropicSpec) BaseURL() string { return s.Base }

func (s *AnthropicSpec) Endpoint(op Operation, req *types.ChatRequest, baseOverride string) (string, error) {
	base := s.Base
	if baseOverride != "" {
		base = baseOverride
	}
	switch op {
	case OpChat, OpChatStream:
		return base + "/v1/messages", nil
	default:
		return "", fmt.Errorf("anthropic: unsupported operation %q", op)
	}
}

func (s *AnthropicSpec) BuildHeaders(apiKey string, extra map[string]string) map[string]string {
	return s.BuildHeadersWithBetas(apiKey, extra, nil)
}

// BuildHeadersWithBetas merges betas (deduped, comma-joined,
// order-insensitive) into the anthropic-beta header.
func (s *AnthropicSpec) BuildHeadersWithBetas(apiKey string, extra map[string]string, betas []string) map[string]string {
	base := map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": anthropicAPIVersion,
		"Content-Type":      "application/json",
	}
	all := DedupeBetas(append(append([]string(nil), s.Betas...), betas...))
	if len(all) > 0 {
		base["anthropic-beta"] = strings.Join(all, ",")
	}
	return mergeHeaders(base, extra)
}

// anthropicFeatureBetas maps the "<type>" suffix of a provider-defined
// tool id ("anthropic.<type>", types.Tool.ID) to the anthropic-beta flag
// that unlocks it, and whether the feature also depends on the Files API
// beta (code execution and skills both read/write files).
var anthropicFeatureBetas = map[string]struct {
	Beta         string
	NeedsFilesAPI bool
}{
	"code_execution": {"code-execution-2025-08-25", true},
	"skills":         {"skills-2025-10-02", true},
}

const filesAPIBeta = "files-api-2025-04-14"

// anthropicToolFeature strips the "anthropic." provider prefix and any
// trailing version suffix (e.g. "anthropic.code_execution_20250825") from
// a provider-defined tool id, returning the bare feature name.
func anthropicToolFeature(id string) string {
	const prefix = "anthropic."
	if !strings.HasPrefix(id, prefix) {
		return ""
	}
	rest := id[len(prefix):]
	for feature := range anthropicFeatureBetas {
		if rest == feature || strings.HasPrefix(rest, feature+"_") {
			return feature
		}
	}
	return rest
}

// RequiredBetas derives the anthropic-beta flags req's content calls
// for: a "context_management" block under provider_options_map["anthropic"]
// (spec.md §8 scenario 4), any explicit "beta" list under the same key,
// and provider-defined tools hosting code execution or skills (which in
// turn pull in the Files API beta both depend on).
func (s *AnthropicSpec) RequiredBetas(req *types.ChatRequest) []string {
	var betas []string

	if raw := req.ProviderOption("anthropic"); len(raw) > 0 {
		var opts struct {
			ContextManagement json.RawMessage `json:"context_management"`
			Beta              []string        `json:"beta"`
		}
		if err := json.Unmarshal(raw, &opts); err == nil {
			if len(opts.ContextManagement) > 0 {
				betas = append(betas, "context-management-2025-06-27")
			}
			betas = append(betas, opts.Beta...)
		}
	}

	var needsFilesAPI bool
	for _, tool := range req.Tools {
		if tool.Kind != types.ToolProviderDefined {
			continue
		}
		if info, ok := anthropicFeatureBetas[anthropicToolFeature(tool.ID)]; ok {
			betas = append(betas, info.Beta)
			needsFilesAPI = needsFilesAPI || info.NeedsFilesAPI
		}
	}
	if needsFilesAPI {
		betas = append(betas, filesAPIBeta)
	}

	return betas
}

// DedupeBetas removes duplicates, preserving order of first occurrence.
func DedupeBetas(betas []string) []string {
	seen := make(map[string]bool, len(betas))
	out := make([]string, 0, len(betas))
	for _, b := range betas {
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

// SortedBetas is a test/debug helper returning a deterministic, sorted
// copy for order-insensitive comparisons.
func SortedBetas(betas []string) []string {
	out := append([]string(nil), betas...)
	sort.Strings(out)
	return out
}

func (s *AnthropicSpec) SSEDoneMarker() string { return "" }
