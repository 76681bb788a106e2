package registry

// aliases maps deprecated or alternate provider ids to the canonical id
// a Factory is registered under. Resolved before factory lookup, the
// same as provider ids normalized before header/URL construction
// elsewhere in this module.
var aliases = map[string]string{
	"google-vertex": "vertex",
	"google_vertex": "vertex",
	"gcp-vertex":    "vertex",
	"responses":     "openai-responses",
	"openai_responses": "openai-responses",
	"x-ai":          "xai",
}

// resolveAlias returns id's canonical form, or id unchanged if it has no
// alias.
func resolveAlias(id string) string {
	if canon, ok := aliases[id]; ok {
		return canon
	}
	return id
}

// RegisterAlias adds or overrides an alias at runtime, e.g. for a vendor
// rename a caller wants to keep resolving under the old name.
func RegisterAlias(alias, canonical string) {
	aliasesMu.Lock()
	defer aliasesMu.Unlock()
	aliases[alias] = canonical
}
