// Package siumai is a unified client for Large Language Model HTTP
// services. One provider-agnostic surface — chat, streaming chat, tools,
// structured output — dispatches internally to OpenAI Chat Completions,
// OpenAI Responses, Anthropic Messages, Google Gemini, Ollama, and the
// 30+ OpenAI-compatible vendors registered under internal/registry.
//
// Build a Client with New, then call Chat or ChatStream:
//
//	client, err := siumai.New("openai:gpt-4o-mini")
//	resp, err := client.Chat(ctx, siumai.UserMessage("hello"))
//
// The heavy machinery — transformers, executors, the streaming engine,
// the registry, middleware — lives under internal/ and is not part of
// this package's API surface.
package siumai
