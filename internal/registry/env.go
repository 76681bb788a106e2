package registry

import (
	"fmt"
	"os"

	"github.com/siumai-go/siumai/internal/providerspec"
)

// APIKey resolves the API key for entry: override wins if non-empty,
// otherwise it's read from entry's env var
// ("{UPPERCASE(id)}_API_KEY" unless providerspec.EnvVarName's override
// table or a compat preset's own EnvVar names another). Ollama (and any other entry with RequiresAPIKey == false) never
// errors on a missing key.
func APIKey(entry Entry, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if !entry.RequiresAPIKey {
		return "", nil
	}
	envVar := providerspec.EnvVarName(entry.ID)
	if cs, ok := entry.Spec.(*providerspec.CompatSpec); ok {
		envVar = cs.Preset.EnvVarName()
	}
	key := os.Getenv(envVar)
	if key == "" {
		return "", fmt.Errorf("registry: %s requires an API key; set %s or pass one explicitly", entry.ID, envVar)
	}
	return key, nil
}
