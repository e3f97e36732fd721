package domain

// RunResult summarizes one reconciler pass
type RunResult struct {
	Pass        string   `json:"pass"`
	Contracts   int      `json:"contracts"`
	Skipped     []string `json:"skipped"`
	RowsChanged int      `json:"rows_changed"`
	LostClaims  int      `json:"lost_claims"`
	Failed      int      `json:"failed"`
}
