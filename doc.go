// Package folio turns a raw transaction ledger into time-stamped holdings and
// derives performance, risk and scenario metrics from them.
//
// The engine is computation-only: it consumes an in-memory transaction list
// and a price lookup capability, and produces plain value objects (snapshots,
// return series, metric results). Persistence, price fetching and rendering
// are the caller's concern.
//
// Data flows strictly upward: ledger replay produces holdings, the valuation
// layer prices them into snapshots, the returns and risk layers consume value
// and return series, and the scenario layer projects the current snapshot
// forward, deterministically or by Monte Carlo simulation.
package folio
