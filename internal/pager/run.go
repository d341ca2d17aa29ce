package pager

import (
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Run executes cmd outside a Bubble Tea program. Batched commands run concurrently
// and every non-batch message is passed to apply as soon as it is produced, so apply
// must be safe for concurrent use. Run returns when every command has finished.
func Run(cmd tea.Cmd, apply func(tea.Msg)) {
	if cmd == nil {
		return
	}

	var g errgroup.Group
	var visit func(tea.Cmd)
	visit = func(c tea.Cmd) {
		g.Go(func() error {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					if sub != nil {
						visit(sub)
					}
				}
				return nil
			}
			if msg != nil {
				apply(msg)
			}
			return nil
		})
	}
	visit(cmd)
	_ = g.Wait()
}
