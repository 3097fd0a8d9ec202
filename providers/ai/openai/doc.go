// Package openai implements ai.Provider for OpenAI-compatible
// /v1/chat/completions endpoints.
//
// [New] reads OPENAI_API_KEY and OPENAI_API_BASE_URL from the environment;
// [Provider.WithAPIKey], [Provider.WithBaseURL] and [Provider.WithHttpClient]
// override them. Tool-call argument strings are decoded into objects here,
// tolerating the small JSON defects models produce; a payload that cannot be
// decoded makes the whole response an error wrapping [ErrMalformedResponse].
package openai
