// Package autoload registers all built-in model providers through their
// init() functions. Import for side effects only.
package autoload

import (
	_ "ricky/pkg/llm/gemini"
	_ "ricky/pkg/llm/ollama"
	_ "ricky/pkg/llm/openailm"
)
