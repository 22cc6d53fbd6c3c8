package dataset

import "sync"

// Holder loads a dataset at most once and hands the same result to every
// caller, including the error if loading failed.
type Holder struct {
	path string
	opt  LoadOptions

	once sync.Once
	ds   *Dataset
	err  error
}

// NewHolder returns a Holder for the source at path. Nothing is read
// until the first Get.
func NewHolder(path string, opt LoadOptions) *Holder {
	return &Holder{path: path, opt: opt}
}

// Path is the configured source path.
func (h *Holder) Path() string { return h.path }

// Get returns the dataset, loading it on first use. Concurrent first
// calls block until the single load finishes.
func (h *Holder) Get() (*Dataset, error) {
	h.once.Do(func() {
		h.ds, h.err = Load(h.path, h.opt)
	})
	return h.ds, h.err
}
