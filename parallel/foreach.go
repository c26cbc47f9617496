// Package parallel contains a bounded parallel ForEach.
package parallel

import "sync"

// ForEach calls body for every integer from 0 to length with at most limit
// calls in flight, and returns the error of the lowest index that failed.
// All bodies run even when some fail.
func ForEach(length, limit int, body func(i int) error) error {
	if limit <= 0 {
		limit = 1 // Default to 1 if limit is zero or negative
	}
	if length <= 0 {
		return nil
	}

	errs := make([]error, length)
	sem := make(chan struct{}, limit) // Semaphore with buffer size 'limit'
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{} // Acquire semaphore
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }() // Release semaphore after function exits

			errs[i] = body(i)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
