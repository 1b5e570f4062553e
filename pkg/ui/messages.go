package ui

// AutoSafeMsg asks the model to run the daily status backfill. Sent by the
// autosafe scheduler so the mutation happens on the UI event loop, which is
// the single writer of board state.
type AutoSafeMsg struct{}

// StoreChangedMsg announces that the backing store was edited externally and
// already reloaded; the model should re-run Load and refresh derived state.
type StoreChangedMsg struct{}
