package types

import "github.com/mitchellh/copystructure"

// CloneChatRequest deep-copies req so a middleware or Client method can
// rewrite CommonParams, ProviderOptions, or Messages without mutating
// the caller's own slices/maps through a shared backing array: requests
// are owned by callers, and the pipeline only borrows them during
// dispatch. A shallow `clone := *req` only copies the top-level struct;
// nested slices and maps would still alias the original.
//
// On the extremely unlikely failure of copystructure.Copy (an
// unsupported field type), CloneChatRequest falls back to a shallow
// copy rather than failing the call outright.
func CloneChatRequest(req *ChatRequest) *ChatRequest {
	copied, err := copystructure.Copy(req)
	if err != nil {
		shallow := *req
		return &shallow
	}
	return copied.(*ChatRequest)
}
