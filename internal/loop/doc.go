// Package loop discovers FOR / END FOR pairs in a recipe and builds the loop
// tree used by timing.
//
// Loops must be properly nested: an END FOR always closes the most recently
// opened FOR. A FOR that is never closed, or an END FOR with nothing open,
// marks the recipe's loop integrity as compromised and is left out of the
// tree; the rest of the analysis carries on. A loop nested deeper than the
// configured maximum is reported as a structural error and also left out.
//
// The open-loop stack lives only for the duration of one Parse call. The
// returned Tree is never modified afterwards; WithDurations returns a copy.
package loop
