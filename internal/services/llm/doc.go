// Package llm provides an OpenRouter-compatible chat completion client.
//
// The parent help chatbot uses Complete for free-text answers. When
// Config.WebSearch is set the request enables the provider's web plugin and
// the url_citation annotations on the reply are returned as Citations.
// CompleteJSON and HealthCheck serve the CLI's configuration check.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, empty completions and
// network timeouts with exponential backoff (base 1s, max 10s, up to 3
// attempts by default), honouring Retry-After. Context cancellation aborts
// retries immediately.
package llm
