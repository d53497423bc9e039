// Package logging builds the application's slog loggers and carries them
// through request contexts.
//
// Example usage:
//
//	logger := logging.New(os.Stdout, "info", "json")
//	ctx = logging.WithLogger(ctx, logger)
//	logging.WithRequestID(ctx, logging.FromContext(ctx)).Info("summarizing")
package logging
