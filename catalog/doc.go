// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package catalog defines the questionnaire: ordered sections of typed
questions.

The built-in catalog is embedded from questions.yaml. A different file can
be supplied at startup:

	cat, err := catalog.Load(cfg.CatalogPath) // "" selects the default

Question ids are unique across the whole catalog. Parse rejects duplicate
ids, unknown types, choice questions without options, rank questions
without rankSlots and percentage questions without zones.
*/
package catalog
