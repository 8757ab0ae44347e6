package compare

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// startSpinner redraws a progress line on w every 100ms until the returned
// stop function is called.
func startSpinner(w io.Writer, processed *int64, total int64) (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	start := time.Now()

	go func() {
		defer wg.Done()
		s := spinner.New()
		s.Spinner = spinner.Dot
		s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				fmt.Fprintf(w, "\r%s Detection complete. %d/%d images processed.\n", "✓", atomic.LoadInt64(processed), total)
				return
			case <-ticker.C:
				s, _ = s.Update(spinner.TickMsg{})
				n := atomic.LoadInt64(processed)
				var rate float64
				if elapsed := time.Since(start).Seconds(); elapsed > 0 {
					rate = float64(n) / elapsed
				}
				fmt.Fprintf(w, "\r%s Detecting corners %d/%d... (%.2f images/s)", s.View(), n, total, rate)
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}
