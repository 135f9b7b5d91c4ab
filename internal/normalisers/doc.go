// Package normalisers converts marked-up lore source files to plain
// text before chunking.
//
// The collaborator pipeline mostly emits plain text, but HTML and
// Markdown exports appear in some corpora. Each format lives in its own
// subpackage; the registry here selects one by file extension and falls
// back to plaintext.
package normalisers
