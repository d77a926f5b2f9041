// ABOUTME: Package tui renders the chatroom in the terminal with bubbletea.
// ABOUTME: Presentation only; all chat semantics live behind the store and sequencer.
//
// The model has three screens: a credential gate shown until a provider key
// is configured, the room creation form, and the chat screen itself. The
// chat screen re-renders on store updates pushed through the watch channel;
// it never polls.
package tui
