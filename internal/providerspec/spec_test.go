package providerspec

import (
	"testing"

	"github.com/siumai-go/siumai/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAISpecEndpointAndHeaders(t *testing.T) {
	spec := NewOpenAISpec()
	url, err := spec.Endpoint(OpChat, &types.ChatRequest{Common: types.CommonParams{Model: "gpt-4o-mini"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", url)

	headers := spec.BuildHeaders("sk-test", nil)
	assert.Equal(t, "Bearer sk-test", headers["Authorization"])
	assert.Equal(t, "[DONE]", spec.SSEDoneMarker())
}

func TestGeminiSpecEncodesModelInURL(t *testing.T) {
	spec := NewGeminiSpec()
	req := &types.ChatRequest{Common: types.CommonParams{Model: "gemini-2.0-flash"}}

	url, err := spec.Endpoint(OpChatStream, req, "")
	require.NoError(t, err)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:streamGenerateContent?alt=sse", url)

	headers := spec.BuildHeaders("goog-key", nil)
	assert.Equal(t, "goog-key", headers["x-goog-api-key"])

	headersWithAuth := spec.BuildHeaders("goog-key", map[string]string{"Authorization": "Bearer oauth-token"})
	_, hasGoogKey := headersWithAuth["x-goog-api-key"]
	assert.False(t, hasGoogKey, "x-goog-api-key must be omitted when Authorization is already set")
}

func TestAnthropicBetaHeaderDedupedAndMerged(t *testing.T) {
	spec := NewAnthropicSpec()
	headers := spec.BuildHeadersWithBetas("key", nil, []string{
		"context-management-2025-06-27",
		"code-execution-2025-08-25",
		"skills-2025-10-02",
		"files-api-2025-04-14",
		"code-execution-2025-08-25", // duplicate
	})

	want := []string{
		"context-management-2025-06-27",
		"code-execution-2025-08-25",
		"skills-2025-10-02",
		"files-api-2025-04-14",
	}
	got := headers["anthropic-beta"]
	assert.ElementsMatch(t, want, splitCSV(got))
	assert.Equal(t, "2023-06-01", headers["anthropic-version"])
	assert.Equal(t, "key", headers["x-api-key"])
}

func TestAnthropicRequiredBetasFromContextManagement(t *testing.T) {
	spec := NewAnthropicSpec()
	req := (&types.ChatRequest{}).WithProviderOption("anthropic", []byte(`{"context_management":{"edits":[{"type":"clear_tool_uses_20250919"}]}}`))

	betas := spec.RequiredBetas(req)
	assert.Equal(t, []string{"context-management-2025-06-27"}, betas)
}

func TestAnthropicRequiredBetasFromProviderDefinedTools(t *testing.T) {
	spec := NewAnthropicSpec()
	req := &types.ChatRequest{
		Tools: []types.Tool{
			{Kind: types.ToolProviderDefined, ID: "anthropic.code_execution_20250825"},
			{Kind: types.ToolProviderDefined, ID: "anthropic.skills"},
			{Kind: types.ToolFunction, Name: "get_weather"},
		},
	}

	betas := spec.RequiredBetas(req)
	assert.ElementsMatch(t, []string{
		"code-execution-2025-08-25",
		"skills-2025-10-02",
		"files-api-2025-04-14",
	}, betas)
}

func TestAnthropicRequiredBetasEmptyWithoutFeatures(t *testing.T) {
	spec := NewAnthropicSpec()
	req := &types.ChatRequest{Tools: []types.Tool{{Kind: types.ToolFunction, Name: "get_weather"}}}
	assert.Empty(t, spec.RequiredBetas(req))
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func TestAzureSpecRoutingModes(t *testing.T) {
	dep := NewAzureSpec("myresource", "gpt4", "2024-10-01-preview", AzureDeploymentRouting)
	url, err := dep.Endpoint(OpChat, &types.ChatRequest{}, "")
	require.NoError(t, err)
	assert.Equal(t, "https://myresource.openai.azure.com/openai/deployments/gpt4/chat/completions?api-version=2024-10-01-preview", url)

	v1 := NewAzureSpec("myresource", "gpt4", "2024-10-01-preview", AzureV1Routing)
	url2, err := v1.Endpoint(OpChat, &types.ChatRequest{}, "")
	require.NoError(t, err)
	assert.Equal(t, "https://myresource.openai.azure.com/openai/v1/chat/completions?api-version=2024-10-01-preview", url2)

	headers := dep.BuildHeaders("azkey", nil)
	assert.Equal(t, "azkey", headers["api-key"])
	_, hasAuth := headers["Authorization"]
	assert.False(t, hasAuth)
}

func TestVertexSpecModes(t *testing.T) {
	req := &types.ChatRequest{Common: types.CommonParams{Model: "gemini-1.5-pro"}}

	ent := NewVertexSpec(VertexEnterprise, VertexBackendGemini, "my-proj", "us-central1")
	url, err := ent.Endpoint(OpChatStream, req, "")
	require.NoError(t, err)
	assert.Contains(t, url, "us-central1-aiplatform.googleapis.com")
	assert.Contains(t, url, "/projects/my-proj/locations/us-central1/publishers/google/models/gemini-1.5-pro:streamGenerateContent")

	exp := NewVertexSpec(VertexExpress, VertexBackendAnthropic, "", "")
	exp.APIKey = "vk"
	url2, err := exp.Endpoint(OpChat, req, "")
	require.NoError(t, err)
	assert.Contains(t, url2, "aiplatform.googleapis.com/v1/publishers/google/models/gemini-1.5-pro:rawPredict")
	assert.Contains(t, url2, "key=vk")
}

func TestEnvVarNameOverridesForNonIdentifierIDs(t *testing.T) {
	assert.Equal(t, "XAI_API_KEY", EnvVarName("xai"))
	assert.Equal(t, "DEEPSEEK_API_KEY", EnvVarName("deepseek"))
}
