package executor

import (
	"net/http"

	"github.com/siumai-go/siumai/internal/types"
)

// Interceptors lets callers observe or mutate a call at three points:
// just before the HTTP request is sent, after a response comes back,
// and when an attempt fails. All three are optional and run in the
// order they're registered; BeforeSend errors abort the call without
// sending anything.
type Interceptors struct {
	BeforeSend func(req *http.Request) error
	OnResponse func(resp *http.Response)
	OnError    func(err *types.Error)
}

// Chain composes multiple Interceptors sets into one, running each
// hook of every member in registration order.
func Chain(sets ...Interceptors) Interceptors {
	return Interceptors{
		BeforeSend: func(req *http.Request) error {
			for _, s := range sets {
				if s.BeforeSend == nil {
					continue
				}
				if err := s.BeforeSend(req); err != nil {
					return err
				}
			}
			return nil
		},
		OnResponse: func(resp *http.Response) {
			for _, s := range sets {
				if s.OnResponse != nil {
					s.OnResponse(resp)
				}
			}
		},
		OnError: func(err *types.Error) {
			for _, s := range sets {
				if s.OnError != nil {
					s.OnError(err)
				}
			}
		},
	}
}

func (i Interceptors) beforeSend(req *http.Request) error {
	if i.BeforeSend == nil {
		return nil
	}
	return i.BeforeSend(req)
}

func (i Interceptors) onResponse(resp *http.Response) {
	if i.OnResponse != nil {
		i.OnResponse(resp)
	}
}

func (i Interceptors) onError(err *types.Error) {
	if i.OnError != nil {
		i.OnError(err)
	}
}
