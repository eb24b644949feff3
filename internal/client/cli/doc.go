// Package cli provides the line-oriented vid2blog front end.
//
// It drives the same state machines as the full-screen interface through a
// read–eval–print loop: every command runs to completion before the next
// prompt, so results always land on the screen that asked for them.
//
// Commands depend on the active screen; type "help" at any prompt to list
// them. The REPL is started via App.Run(ctx), which blocks until the user
// exits or input ends.
package cli
