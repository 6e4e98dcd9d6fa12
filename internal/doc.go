// Package internal implements the consent controller re-exported by the root
// consent package.
//
// The state machine is a pure reducer, [Reduce], over [State] values:
//
//	Uninitialized --Initialize--> Prompting | Decided
//	Prompting --AcceptAll|RejectAll--> Decided
//	(settings open) --SaveSettings--> Decided
//	any --Reset--> Prompting
//
// [Controller] wraps the reducer with the side effects of each transition:
// persistence through record.Store, cookie purging through cookie.Jar,
// signaling through gtag.Adapter and host notifications.
package internal
