package executor

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/dnaeon/go-vcr.v4/pkg/recorder"

	"github.com/siumai-go/siumai/internal/providerspec"
	"github.com/siumai-go/siumai/internal/types"
)

// TestDoAgainstRecordedCassette replays a recorded OpenAI Chat
// Completions interaction instead of hitting the real API: vendor
// request/response fixtures are recorded once and replayed on every
// subsequent run.
func TestDoAgainstRecordedCassette(t *testing.T) {
	rec, err := recorder.NewWithOptions(&recorder.Options{
		CassetteName: "testdata/openai_chat",
		Mode:         recorder.ModeReplayOnly,
	})
	require.NoError(t, err)
	defer rec.Stop()

	exec := NewHTTPExecutor("openai", providerspec.NewOpenAISpec(), OpenAITransformers{}, "test-key")
	exec.Client = &http.Client{Transport: rec}

	req := &types.ChatRequest{
		Messages: []types.ChatMessage{{Role: types.RoleUser, Content: types.NewTextContent("hello")}},
		Common:   types.CommonParams{Model: "gpt-4o-mini"},
	}
	resp, err := exec.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", resp.ContentText())
	assert.Equal(t, types.FinishStop, resp.FinishReason.Kind)
	assert.Equal(t, 8, resp.Usage.TotalTokens)
}
