// Package autoload registers all built-in channel factories through their
// init() functions. Import for side effects only.
package autoload

import (
	_ "ricky/pkg/channels/telegram"
	_ "ricky/pkg/channels/web"
)
