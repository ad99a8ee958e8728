package cli

// Exit codes for pegc, per spec.md §6.1: "0 success, 1 any usage/I/O/
// compilation error" — pegc has only two outcomes, unlike gomdlint's finer
// lint-severity-driven table, since a grammar either compiles or it doesn't.
const (
	ExitSuccess = 0
	ExitFailure = 1
)
