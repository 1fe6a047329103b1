// Package pipeline holds the pure stages between an uploaded CSV file and
// what the dashboard renders: decode, parse, column selection, chart
// projection, descriptive statistics and export.
//
// Nothing here touches storage or the network. Every function is safe for
// concurrent use on a shared *entity.Table.
package pipeline
