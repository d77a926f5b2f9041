// ABOUTME: Package conversation sequences multi-agent turns for chat rooms.
// ABOUTME: It owns the submit path, action routing, pacing, and busy-flag lifecycle.
//
// The flow for one user message:
//
//	Submit → append user message → ProcessUserTurn (async)
//	  → director.Plan(history window, roster, message)
//	  → for each planned turn, in order:
//	      resolve speaker, dispatch action resolver, append message,
//	      pace before the next turn
//	  → release busy flag (all paths)
//
// Failure policy: a director failure yields zero replies (logged, never
// surfaced); an unknown speaker drops only its own turn; a failed action
// degrades its message to text with an apology suffix. Nothing a single
// turn does can abort its siblings or leave the room busy.
package conversation
