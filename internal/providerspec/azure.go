package providerspec

import (
	"fmt"

	"github.com/siumai-go/siumai/internal/types"
)

// AzureRouting selects which of Azure OpenAI's two URL shapes to use.
type AzureRouting string

const (
	AzureDeploymentRouting AzureRouting = "deployment"
	AzureV1Routing         AzureRouting = "v1"
)

// AzureSpec wraps the OpenAI Chat/Responses transformers with Azure's
// URL and auth conventions: base
// "https://{resource}.openai.azure.com/openai", "api-key" header instead
// of Authorization, and "api-version" as a query parameter. It reuses
// the OpenAI transformer set entirely — only Spec differs.
type AzureSpec struct {
	Resource   string
	Deployment string
	APIVersion string
	Routing    AzureRouting
}

func NewAzureSpec(resource, deployment, apiVersion string, routing AzureRouting) *AzureSpec {
	return &AzureSpec{Resource: resource, Deployment: deployment, APIVersion: apiVersion, Routing: routing}
}

func (s *AzureSpec) ID() string { return "azure" }

func (s *AzureSpec) BaseURL() string {
	return fmt.Sprintf("https://%s.openai.azure.com/openai", s.Resource)
}

func (s *AzureSpec) Endpoint(op Operation, req *types.ChatRequest, baseOverride string) (string, error) {
	base := s.BaseURL()
	if baseOverride != "" {
		base = baseOverride
	}
	var path string
	switch op {
	case OpChat, OpChatStream:
		path = "/chat/completions"
	case OpEmbed:
		path = "/embeddings"
	default:
		return "", fmt.Errorf("azure: unsupported operation %q", op)
	}

	if s.Routing == AzureV1Routing {
		return fmt.Sprintf("%s/v1%s?api-version=%s", base, path, s.APIVersion), nil
	}
	return fmt.Sprintf("%s/deployments/%s%s?api-version=%s", base, s.Deployment, path, s.APIVersion), nil
}

func (s *AzureSpec) BuildHeaders(apiKey string, extra map[string]string) map[string]string {
	base := map[string]string{
		"api-key":      apiKey,
		"Content-Type": "application/json",
	}
	return mergeHeaders(base, extra)
}

func (s *AzureSpec) SSEDoneMarker() string { return "[DONE]" }
