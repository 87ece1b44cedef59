// Command install-hooks copies hooks/pre-commit and hooks/pre-push into .git/hooks.
package main

import (
	"os"
	"path/filepath"

	"smart-cv-generator/internal/tooling/hooks"
	"smart-cv-generator/pkg/logger"
)

func main() {
	log := logger.NewConsole()
	if err := hooks.Install("hooks", filepath.Join(".git", "hooks"), hooks.Names, os.Stdout); err != nil {
		log.Error().Err(err).Msg("install hooks")
		os.Exit(1)
	}
}
