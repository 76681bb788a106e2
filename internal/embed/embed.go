// Package embed implements the embeddings capability: text in, vectors
// out, no streaming half — the same spec-driven endpoint/header
// construction the chat pipeline uses, specialized to one
// request/response shape per vendor family instead of TransformerSet's
// four (request/response/stream/frame-mode).
package embed

import "github.com/siumai-go/siumai/internal/types"

// Request is the unified embedding request: one or more input strings
// embedded against Model.
type Request struct {
	Model      string
	Input      []string
	Dimensions *int
}

// Response is the unified embedding response. Vectors is indexed the
// same way Request.Input is.
type Response struct {
	Model   string
	Vectors [][]float32
	Usage   types.Usage
}

// Transformer maps a Request to one vendor's wire body and that
// vendor's wire response back to Response.
type Transformer interface {
	BuildRequest(req *Request) ([]byte, error)
	ParseResponse(body []byte) (*Response, error)
}
