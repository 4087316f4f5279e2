package lzc

import "github.com/ledgerwatch/log/v3"

// WriterOptions configures compression. The zero value is not valid; start
// from DefaultWriterOptions.
type WriterOptions struct {
	// MaxCodeWidth caps codes at this many bits, 9 through 16. A wider cap
	// admits a larger dictionary at the price of wider codes once the
	// dictionary grows past 512 entries.
	MaxCodeWidth uint8

	// Logger receives encode diagnostics, such as the dictionary freezing.
	// Nil discards them.
	Logger log.Logger
}

// DefaultWriterOptions uses the widest permitted codes, matching the
// reference tool's default.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{MaxCodeWidth: MaxCodeWidth}
}

// ReaderOptions configures decompression.
type ReaderOptions struct {
	// Logger receives decode diagnostics: reserved header flag bits,
	// dictionary resets, streams predating block mode. Nil discards them.
	Logger log.Logger
}

func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{}
}

// sessionLogger returns l, or a logger that drops everything when no logger
// was supplied. Each session gets its own instance; the codec never touches
// a process-wide logger.
func sessionLogger(l log.Logger) log.Logger {
	if l != nil {
		return l
	}
	nop := log.New()
	nop.SetHandler(log.DiscardHandler())
	return nop
}
