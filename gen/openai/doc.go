// Package openai implements gen.Generator against OpenAI-compatible chat
// APIs (OpenAI, Ollama, LocalAI, vLLM).
package openai
