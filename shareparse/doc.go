// Package shareparse decodes share-set documents into validated ShareSets.
//
// A share-set document is a JSON object with one fixed member and any number
// of numbered share members:
//
//	{
//	  "keys": { "n": 4, "k": 3 },
//	  "1": { "base": "10", "value": "495" },
//	  "2": { "base": "2",  "value": "111010101111" },
//	  "3": { "base": "16", "value": "2ff" },
//	  "4": { "base": "36", "value": "e1b" }
//	}
//
// Each numbered key is the share's positive 1-based index (the polynomial
// abscissa) and its value string is the share value expressed in the stated
// numeric base, 2 through 36. Values are decoded into arbitrary-precision
// integers, so documents may carry values of any magnitude.
//
// The parser is the validation boundary in front of the recovery core: it
// rejects malformed records, bases outside 2..36, digits invalid for the
// base, duplicate or non-positive indices, share counts that disagree with
// "n", and thresholds outside 1..n. The core can therefore assume a
// well-formed ShareSet.
package shareparse
