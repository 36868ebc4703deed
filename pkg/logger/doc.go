// Package logger provides the structured logging used by photosync.
//
// It wraps zerolog behind a small Logger interface so that clients can take
// an injected logger in tests and the process-wide one in the CLI:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.WithField("owner_id", ownerID).Info("fetching photos")
//
// Console output goes to stderr. When LoggingConfig.File is set, entries are
// also appended to that file.
//
// NewTestLogger captures entries for assertions and NewNopLogger discards
// them.
package logger
