// codegen is a library that creates, decorates or modifies DST objects in specific repeatable ways.
// This library is a common place for logic around how new declarations in a DST tree get created,
// as well as how to handle the whitespace and comments attached to them. Any function that creates
// a new node for insertion into the tree should be added here. When implementing functions for this
// library, the following rules should apply:
//
// 1. Any DST objects (expressions, statements, nodes, etc.) that are consumed as inputs should be
// defensively cloned before returning them as part of an output. There is a small execution cost to
// this, but if an object is duplicated anywhere in the tree, a runtime panic will occur when the
// file is restored.
// 2. Please add a comment header about what the output of your function is and what it does. All
// exported functions MUST be documented in way that is compatible with `godoc`.
// 3. Generated declarations are printed as real source code, so a test verifying the printed output
// is the best safeguard against a node that fails to render.
package codegen
