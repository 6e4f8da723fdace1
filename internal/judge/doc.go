// Package judge is the semantic-judgment collaborator: it asks a
// language model whether a text span is a heading, what level a batch of
// headings should occupy, and whether a finished outline looks complete.
//
// Judgments supplement the deterministic signals in internal/outline;
// they enter the engine as heuristic candidates and never outrank an
// authoritative outline. The package is transport-only: no inference
// state lives here, and every call is a pure request/response exchange
// guarded by retries and an optional fallback model.
//
// Two backends are supported: an OpenAI-compatible endpoint (including
// self-hosted gateways via BaseURL) and the Anthropic messages API.
package judge
