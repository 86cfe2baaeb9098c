// Package tui is the terminal front-end of stormdbg.
//
// A Screen is the window's Frame and its Dialogs. Terminal input is read on
// a poller goroutine and handed to the UI loop with Post; drawing and every
// action trigger happen on the loop. The layout is:
//
//	row 0      menu bar and window title
//	row 1      toolbar
//	rows 2..   left dock | central editor | right dock, then top and
//	           bottom dock rows
//	last row   status label, prompt or message
//
// Actions are reached through their shortcuts, e.g. Ctrl+O or F5.
package tui
