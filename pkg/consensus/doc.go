// Package consensus collapses each node's label multiset into a single
// representative label.
//
// # Algorithm
//
// For every node a histogram is built over the node's unique labels, in the
// order they first occur, followed by the sentinel [Sentinel] ("-") with a
// count of zero. The consensus is every label whose count equals the
// histogram maximum, joined with [TieSep] ("|") in histogram order:
//
//	["a", "a", "b"] -> "a"
//	["b", "a"]      -> "b|a"
//	[]              -> "-"
//
// The sentinel only wins when a node has no labels at all.
//
// # Element Translation
//
// When [Options.Elements] is set and every label of every node in the graph
// is a key of that table, the unique labels are translated (for example
// atomic number "6" to "C") before counting. A single label anywhere in the
// graph that the table does not know disables translation for all nodes.
//
// # Counting Translated Labels
//
// How translated labels are counted is selected by [Options.Counting]:
//
//   - [CountSource] (the zero value) looks each translated symbol up in the
//     node's untranslated label sequence. With translation active this finds
//     no occurrences, so every symbol ties with the sentinel at zero.
//   - [CountTranslated] counts occurrences after translation, so ["6","6","8"]
//     yields "C".
//
// CountSource is kept as the default because existing consumers of these
// labels were produced with it; which behavior is correct is still open.
//
// # Concurrency
//
// [Compute] does not modify the graph and is safe for concurrent use with
// other readers.
package consensus
