package cleanup

import (
	"time"

	"github.com/NaijaReels/naijareels-go/pkg/config"
)

// Config holds cleanup worker configuration, sourced from the central config package.
type Config struct {
	CleanupInterval  time.Duration
	EntryTTL         time.Duration
	VerboseReporting bool
}

// NewConfig creates a new cleanup configuration by reading values
// from the already-initialized variables in the centralized /pkg/config package.
func NewConfig() *Config {
	return &Config{
		CleanupInterval:  config.CleanupInterval,
		EntryTTL:         config.CacheEntryTTL,
		VerboseReporting: config.CleanupVerbose,
	}
}
