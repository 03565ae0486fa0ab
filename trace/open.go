package trace

import (
	"fmt"
	"os"
)

// Set is a group of per-core trace readers opened from files.
type Set struct {
	// Readers holds one Reader per core, in core-id order.
	Readers []*Reader

	files []*os.File
}

// Filename returns the trace file name for one core of an application.
func Filename(app string, coreID int) string {
	return fmt.Sprintf("%s_proc%d.trace", app, coreID)
}

// OpenApp opens the count per-core trace files of an application,
// <app>_proc<i>.trace for i in [0, count). On any failure, files opened so
// far are closed.
func OpenApp(app string, count int, opts ...ReaderOption) (*Set, error) {
	s := &Set{}

	for i := 0; i < count; i++ {
		name := Filename(app, i)
		f, err := os.Open(name)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("could not open trace file %s: %w", name, err)
		}

		s.files = append(s.files, f)
		s.Readers = append(s.Readers, NewReader(name, f, opts...))
	}

	return s, nil
}

// Close closes all underlying trace files.
func (s *Set) Close() error {
	var firstErr error
	for _, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
