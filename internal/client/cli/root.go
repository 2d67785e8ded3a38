package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if u := a.currentUser(); u != nil {
		s = fmt.Sprintf("%s/%s ", u.Email, u.Role)
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root prints the banner, starts the connectivity watcher and runs the REPL
// until the user exits or input ends.
func (a *App) Root(ctx context.Context) {

	a.printf("Welcome to TaskLane CLI (type 'help' for commands)\n")

	a.checkOnline(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.config != nil && a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)

}
