// Package planner turns a generation request into an ordered module plan.
//
// Planning runs in two stages. Select validates the requested variant
// combination against the registry and produces a skeleton selection
// (including the implicit core module). Resolve orders the selection so that
// every module renders only after the modules whose context contributions it
// depends on, accumulates those contributions into a Context, and freezes it.
// Rendering never starts from an unresolved plan.
package planner
