// Package ui contains the Bubble Tea program that renders the sitemap panel
// in a terminal and turns mouse clicks and key presses into panel touches.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by one
//     focused function.
//   - Mouse releases are scaled from terminal cells to panel coordinates and
//     handed to panel.Engine.Touch. Keys synthesize taps on the rail arrows
//     or the grid cells, so both paths share the engine's routing.
//   - A touch that lands in a live region flashes its highlight rectangle
//     for a moment; an item command is posted through the command bus after
//     the engine has released its critical section.
//
// Backend interactions:
//   - A backend.Watcher fetches the sitemap and streams widget updates. A
//     command goroutine waits for those events and hands them to the
//     dispatcher, which rebuilds or patches the engine's tree off the update
//     loop. Update only applies the reported redraw.
//
// Rendering:
//   - The view scales the panel layout onto a grid of terminal cells: the
//     rail on the left, the element grid on the right and a status line at
//     the bottom. The jump palette overlays the grid and filters every
//     reachable page with fuzzy matching.
package ui
