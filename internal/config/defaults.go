package config

import "time"

const (
	DefaultLogMaxBytes        int64 = 1024 * 1024
	DefaultMarker                   = "SS"
	DefaultMaxListed                = 50
	DefaultMaxPathLen               = 250
	DefaultMaxCollisionSuffix       = 9999
	DefaultMaxAttempts              = 3
	DefaultRetryDelay               = 3 * time.Second
	DefaultConverterTimeout         = 2 * time.Minute
)

var (
	DefaultExtensions = []string{".doc", ".docx"}
	// DefaultIgnore skips the owner/lock files word processors leave next to open documents.
	DefaultIgnore = []string{"~$*", ".~lock*"}
)

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	if c.Log.MaxBytes <= 0 {
		c.Log.MaxBytes = DefaultLogMaxBytes
	}
	if c.Organize.Marker == "" {
		c.Organize.Marker = DefaultMarker
	}
	if len(c.Organize.Extensions) == 0 {
		c.Organize.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if c.Organize.Ignore == nil {
		c.Organize.Ignore = append([]string(nil), DefaultIgnore...)
	}
	if c.Organize.MaxListed <= 0 {
		c.Organize.MaxListed = DefaultMaxListed
	}
	if c.Organize.MaxPathLen <= 0 {
		c.Organize.MaxPathLen = DefaultMaxPathLen
	}
	if c.Organize.MaxCollisionSuffix <= 0 {
		c.Organize.MaxCollisionSuffix = DefaultMaxCollisionSuffix
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = DefaultMaxAttempts
	}
	if c.Retry.Delay.Duration <= 0 {
		c.Retry.Delay.Duration = DefaultRetryDelay
	}
	if c.Converter.Type == "" {
		c.Converter.Type = "soffice"
	}
	if c.Converter.Timeout.Duration <= 0 {
		c.Converter.Timeout.Duration = DefaultConverterTimeout
	}
	if c.Pending.Type == "" {
		c.Pending.Type = "filesystem"
	}
	if c.Backup.Encryption == "" {
		c.Backup.Encryption = "none"
	}
}
