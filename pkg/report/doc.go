// Package report archives smoothing results in a SQLite database.
//
// A Run records the parameters of a smoothing call (method, order, bins,
// gamma) together with the probability assigned to every observed event and
// to each unseen slot. Runs are written once by SaveRun and can later be
// listed, inspected, exported as JSON, re-imported or pruned. The archive
// never stores models: it is a log of results, not a model cache.
//
// The package is driver agnostic. Callers open the *sql.DB with the SQLite
// driver of their choice, call SetupSchema once and then NewStore:
//
//	db, _ := sql.Open("sqlite", "lpngram.db")
//	_ = report.SetupSchema(db)
//	store, _ := report.NewStore(db)
//	defer store.Close()
//
//	dist, _ := smoothing.WittenBell(freqs, 30)
//	id, _ := store.SaveRun(ctx, report.NewRun("words", 1, 0, freqs, dist))
package report
