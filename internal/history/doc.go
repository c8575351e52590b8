// Package history holds the bounded logs that feed visualization and
// diagnostics.
//
// The two buffers evict differently on purpose:
//
//   - [Trail] is a sliding time window. Points older than the window are
//     dropped on every append, however many there are.
//   - [EnergyLog] is a fixed-capacity FIFO. It always keeps the most recent
//     N samples regardless of when they were taken.
//
// Neither type is safe for concurrent use.
package history
