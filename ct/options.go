package ct

// Option configures a Config during New, following the teacher's
// FileWriterOption pattern: each Option mutates the Config in place and
// cannot fail (validation happens once, in New, after all options apply).
type Option func(*Config)

// WithAlgorithm selects the compression algorithm new sub-pages use.
func WithAlgorithm(a Algorithm) Option {
	return func(c *Config) { c.Algorithm = a }
}

// WithSubPages sets the number of hash-routed sub-pages per leaf.
func WithSubPages(n int) Option {
	return func(c *Config) { c.SubPages = n }
}

// WithBufferSize sets the lazy write buffer's capacity in entries.
func WithBufferSize(n int) Option {
	return func(c *Config) { c.BufferSize = n }
}

// WithFlushThreshold sets the lazy write buffer's flush point.
func WithFlushThreshold(n int) Option {
	return func(c *Config) { c.FlushThreshold = n }
}

// WithLazyCompression toggles write-combining via the lazy buffer.
func WithLazyCompression(enabled bool) Option {
	return func(c *Config) { c.LazyCompression = enabled }
}

// WithCompressionLevel selects the software codec's speed/ratio tradeoff: 0
// is s2's default block encoder, 1 is EncodeBetter, 2 is EncodeBest. It has
// no effect on the hardware codec's own (fixed) encoding.
func WithCompressionLevel(level int) Option {
	return func(c *Config) { c.CompressionLevel = level }
}

// WithTelemetry enables opt-in, strictly observational workload
// classification (see internal/telemetry). It never influences split,
// merge, or compression decisions.
func WithTelemetry(enabled bool) Option {
	return func(c *Config) { c.Telemetry = enabled }
}
