// Package providerspec describes, per vendor, how to build the URL and
// headers for a given operation. Specs are immutable
// value objects; the same instance is shared across every call rather
// than rebuilt per request.
package providerspec

import "github.com/siumai-go/siumai/internal/types"

// Operation identifies which endpoint a Spec is being asked to build.
type Operation string

const (
	OpChat         Operation = "chat"
	OpChatStream   Operation = "chat_stream"
	OpEmbed        Operation = "embed"
	OpImage        Operation = "image"
	OpAudioTTS     Operation = "audio_tts"
	OpAudioSTT     Operation = "audio_stt"
	OpFilesUpload  Operation = "files_upload"
	OpFilesGet     Operation = "files_get"
	OpFilesContent Operation = "files_content"
	OpFilesDelete  Operation = "files_delete"
	OpRerank       Operation = "rerank"
	OpVideo        Operation = "video"
)

// Spec is the per-provider description the executor consults to turn a
// ChatRequest into a concrete HTTP request.
type Spec interface {
	// ID is the registry provider id, e.g. "openai", "anthropic".
	ID() string

	// BaseURL returns the default API origin. A per-client override (the
	// executor's BaseOverride) reaches Endpoint as baseURLOverride; the
	// Spec itself never changes.
	BaseURL() string

	// Endpoint returns the full URL for op against req. Some specs
	// encode request-dependent path segments (Gemini's {model},
	// Azure's {deployment}).
	Endpoint(op Operation, req *types.ChatRequest, baseURLOverride string) (string, error)

	// BuildHeaders returns the headers for a call using apiKey, merged
	// with any caller-supplied extra headers (extra wins on conflict).
	BuildHeaders(apiKey string, extra map[string]string) map[string]string

	// SSEDoneMarker returns the sentinel payload that closes an SSE
	// stream for this vendor, or "" if none.
	SSEDoneMarker() string
}

// BetaSpec is implemented by specs whose header set depends on per-request
// feature flags rather than being fixed per-provider (Anthropic's
// anthropic-beta header). The executor type-asserts Spec to this before
// falling back to plain BuildHeaders.
type BetaSpec interface {
	Spec

	// RequiredBetas inspects req and returns the beta flags it calls for.
	RequiredBetas(req *types.ChatRequest) []string

	// BuildHeadersWithBetas is BuildHeaders plus betas merged into the
	// feature-flag header, deduped and comma-joined.
	BuildHeadersWithBetas(apiKey string, extra map[string]string, betas []string) map[string]string
}

// EnvVarName returns the environment variable Spec's API key should be
// read from by the registry, defaulting to
// "{UPPERCASE(id)}_API_KEY" unless overridden.
func EnvVarName(id string) string {
	if override, ok := envVarOverrides[id]; ok {
		return override
	}
	return upper(id) + "_API_KEY"
}

// envVarOverrides covers provider ids that aren't valid Go/shell
// identifiers once uppercased verbatim (e.g. hyphens).
var envVarOverrides = map[string]string{
	"x-ai":            "XAI_API_KEY",
	"xai":             "XAI_API_KEY",
	"google-vertex":   "GOOGLE_VERTEX_API_KEY",
	"vertex":          "GOOGLE_VERTEX_API_KEY",
	"openai-responses": "OPENAI_API_KEY",
}

func upper(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		} else if c == '-' {
			c = '_'
		}
		out[i] = c
	}
	return string(out)
}

// mergeHeaders layers extra over base, returning a new map.
func mergeHeaders(base map[string]string, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
