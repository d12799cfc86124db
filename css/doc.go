// Package css turns stylesheet text into an ordered list of rules with parsed
// selectors and decides which elements of an HTML tree those selectors match.
//
// Supported selector grammar is intentionally small: type (div), universal
// (*), class (.name), id (#name), compounds of those (div.a#b) joined by
// descendant (a b) or child (a > b) combinators. Anything else is reported as
// a soft problem and the rule carrying it is dropped, the rest of the
// stylesheet is still used.
package css
