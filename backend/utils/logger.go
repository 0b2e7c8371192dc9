package utils

import (
	"log"
	"os"
)

// LoggerConfig tunes the application logger.
type LoggerConfig struct {
	// Log format (text/json-ish prefixing).
	Format string
	// Output stream (os.Stdout, a file, ...).
	Output *os.File
	// Enable ANSI colors on the console prefix.
	EnableColors bool
}

// InitLogger builds the application logger.
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	prefix := "[Mentorship Platform] "

	var logger *log.Logger
	if cfg.Format == "json" {
		logger = log.New(cfg.Output, prefix, log.LstdFlags|log.LUTC)
	} else {
		if cfg.EnableColors {
			prefix = "\033[36m" + prefix + "\033[0m"
		}
		logger = log.New(cfg.Output, prefix, log.LstdFlags|log.Lshortfile|log.LUTC)
	}

	return logger
}
