// Package memo implements the memo board: a draft text field and a list of
// submitted memos held in one store.
//
// Board mirrors a form-and-list screen. Typing calls Write, which patches the
// Draft field; submitting appends the draft to Memos with an updater and then
// clears the draft with a second patch. Remove and Clear go through the
// store's reducer as Actions, and the demo command replays scripted Actions
// parsed by ParseAction.
//
// The store is built with three mutators, innermost first: Trace (so every
// change reaches the observer), Selector (OnMemos ignores draft edits) and
// Reducer (Dispatch).
package memo
