package dtox

import "runtime"

// Options controls batch conversions
type Options struct {
	// Concurrency bounds the goroutines used by ToModels and ToDatas
	Concurrency int
}

func defaultOptions() *Options {
	return &Options{Concurrency: runtime.GOMAXPROCS(0)}
}
