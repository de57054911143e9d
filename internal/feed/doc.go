// Package feed fans change events out to websocket subscribers. Every
// subscriber is scoped to one owner and only receives that owner's events.
package feed
