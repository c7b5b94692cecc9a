// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package autosave keeps an in-progress session on the respondent's machine
so it can be resumed later.

# Stores

A Store is a small key-value store. Three are provided:

  - MemoryStore: in-process only
  - FileStore: one JSON file per key in a directory
  - SQLiteStore: a key-value table in a SQLite file

# Saving

Progress encodes a State under the fixed Key. Store failures are logged and
swallowed; a missing or corrupt value loads as "nothing saved".

Saver debounces writes:

	saver := autosave.NewSaver(autosave.NewProgress(store, cat), autosave.DefaultQuietPeriod)
	saver.Schedule(state) // after every edit
	saver.Flush()         // on exit
	saver.Clear()         // after submitting or starting over
*/
package autosave
