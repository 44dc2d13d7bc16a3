// Package errors provides coded, actionable diagnostics for the wingman CLI.
//
// Library packages return plain Go errors (sentinels and typed errors that
// work with errors.Is and errors.As). The CLI turns them into a
// *WingmanError with FromComposeError, which picks a code, a detail and a
// hint, and points at the offending line of a tree file when there is one.
//
// # Error Codes
//
//   - W001-W009: composition (context, includes, agents, components)
//   - W010-W019: configuration
//   - W020-W029: tree loading
//   - W030-W039: output
//   - W040-W049: preview server
//
// # Usage
//
//	err := errors.New("W011").
//	    WithDetail(`preview.port must be between 1 and 65535, got 70000`).
//	    WithSuggestion("Fix wingman.yaml or set WINGMAN_PREVIEW_PORT")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR W011: Invalid configuration
//	//
//	//   preview.port must be between 1 and 65535, got 70000
//	//
//	//   Hint: Fix wingman.yaml or set WINGMAN_PREVIEW_PORT
package errors
