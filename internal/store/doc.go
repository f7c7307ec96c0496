// Package store provides persistent storage for conversion history and
// favorites using SQLite.
//
// # Architecture
//
// The conversation service depends on a narrow Persistence interface it
// declares itself; SQLiteStore here implements it plus listing and usage
// statistics for the CLI. MockStore is the in-memory test double.
//
// # Data Models
//
//   - Conversion: one completed conversion, appended per successful
//     EnterValue step
//   - Favorite: a named source/target unit pair, upserted per session+name
//
// Persistence failures never unwind a conversion already shown to the
// user; callers degrade to "result shown but not saved".
package store
