// Package conversation drives the multi-step conversion dialogue.
//
// # Overview
//
// The Service is the single entry point for user input. Frontends deliver
// (sessionID, raw text) to HandleInput and render the returned Reply; how
// options are presented (keyboard, numbered list, buttons) is entirely the
// frontend's business.
//
// # Steps
//
// The dialogue is a fixed sequence:
//
//	Idle → SelectCategory → SelectUnitFrom → SelectUnitTo → EnterValue → PostResult → Idle
//
// Each step accepts its expected input, the back command (returning to the
// previous step with the step's selection cleared), or cancel (reset to
// Idle from any step). Unrecognized input re-prompts without advancing.
//
// # Post-result actions
//
// After a conversion the user can start a new conversion, enter another
// value against the same unit pair, save the pair to favorites (the
// session stays in PostResult so more values can follow), or finish.
//
// # Persistence
//
// History and favorites writes go through the Persistence interface with
// their own timeout contexts. A failed write degrades to "result shown but
// not saved" and is reported in the reply; it never unwinds the conversion
// or corrupts session state.
package conversation
