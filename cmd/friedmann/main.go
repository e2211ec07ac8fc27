package main

import (
	"context"
	"errors"
	"os"

	"github.com/agbru/friedmann/internal/app"
	apperrors "github.com/agbru/friedmann/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		var cfgErr apperrors.ConfigError
		if errors.As(err, &cfgErr) {
			os.Exit(apperrors.ExitErrorConfig)
		}
		os.Exit(apperrors.ExitErrorGeneric)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
