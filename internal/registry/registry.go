// Package registry resolves "provider[:model]" identifiers to a ready
// executor pipeline: provider spec, transformer set, and the API key
// read from the environment, through an open, dynamically-registrable
// table rather than a fixed provider switch.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/siumai-go/siumai/internal/embed"
	"github.com/siumai-go/siumai/internal/executor"
	"github.com/siumai-go/siumai/internal/providerspec"
)

var (
	entriesMu sync.RWMutex
	aliasesMu sync.RWMutex
)

// Entry is everything the facade client needs to wire one provider:
// its Spec (URL/header construction) and TransformerSet (request/
// response/stream translation), plus whether calls require an API key.
type Entry struct {
	ID             string
	Spec           providerspec.Spec
	Transformers   executor.TransformerSet
	EmbedTransformer embed.Transformer // nil if this provider has no embeddings endpoint
	RequiresAPIKey bool
}

// Factory builds a fresh Entry. Factories are invoked once per Resolve
// call rather than cached, since a Spec such as CompatSpec closes over
// preset-specific state.
type Factory func() Entry

var factories = map[string]Factory{}

func init() {
	registerBuiltins()
}

// Register adds or replaces the factory for id. Safe for concurrent use
// alongside Resolve; takes the writer-exclusive lock.
func Register(id string, f Factory) {
	entriesMu.Lock()
	defer entriesMu.Unlock()
	factories[id] = f
}

// Split parses a "provider[:model]" identifier using sep (default ":")
// into its provider id and optional model suffix.
func Split(identifier, sep string) (providerID, model string) {
	if sep == "" {
		sep = ":"
	}
	idx := strings.Index(identifier, sep)
	if idx < 0 {
		return identifier, ""
	}
	return identifier[:idx], identifier[idx+len(sep):]
}

// Resolve parses identifier, resolves aliases, and returns a fresh Entry
// for its provider id along with any model suffix. The separator
// defaults to ":" when sep is "".
func Resolve(identifier, sep string) (Entry, string, error) {
	providerID, model := Split(identifier, sep)

	aliasesMu.RLock()
	canonical := resolveAlias(providerID)
	aliasesMu.RUnlock()

	entriesMu.RLock()
	f, ok := factories[canonical]
	entriesMu.RUnlock()
	if !ok {
		return Entry{}, "", fmt.Errorf("registry: unknown provider %q", providerID)
	}
	return f(), model, nil
}

// Known returns every registered provider id, sorted is not guaranteed.
func Known() []string {
	entriesMu.RLock()
	defer entriesMu.RUnlock()
	out := make([]string, 0, len(factories))
	for id := range factories {
		out = append(out, id)
	}
	return out
}
