// Package prompt loads and renders the prompt templates used for AI
// generation, with project-local overrides taking precedence over the
// embedded defaults. It also provides a small builder for assembling
// structured user prompts.
package prompt
