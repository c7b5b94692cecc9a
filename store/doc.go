// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store archives delivered submissions for the admin view.

Store is implemented by:

  - SQL: Postgres or SQLite through database/sql, one row per submission.
  - Redis: one key per submission (submission:<id>) plus a sorted set
    (submissions:all) scored by the store time in milliseconds.
  - Unconfigured: keeps nothing; lists are empty and writes succeed.

Ids are time-ordered UUIDv7 strings prefixed with "sub_". Listings are
newest first. Deleting an id that does not exist is not an error.
*/
package store
