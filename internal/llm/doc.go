// Package llm provides a minimal text-completion interface over hosted
// language models. Groq and OpenAI are reached through the OpenAI-compatible
// chat completions API; Anthropic through its messages API. Clients returned
// by NewClient are rate limited and retry transient failures.
package llm
