package evaluator

// Budget holds the resource limits for an evaluation. Nil fields are unlimited.
type Budget struct {
	TimeMs       *int64
	MaxCallDepth *int64
}

// BudgetTracker tracks resource consumption during evaluation.
type BudgetTracker struct {
	Calls       int64 `json:"calls"`
	NativeCalls int64 `json:"nativeCalls"`
	Statements  int64 `json:"statements"`
	Depth       int64 `json:"-"`
	MaxDepth    int64 `json:"maxDepth"`
	StartMs     int64 `json:"startMs"`
}

// Int64 returns a pointer to n, for filling Budget fields.
func Int64(n int64) *int64 {
	return &n
}
