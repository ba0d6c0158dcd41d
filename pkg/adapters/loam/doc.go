// Package loam reads blueprint documents from a Loam repository.
//
// Documents are Markdown files with YAML frontmatter, or plain JSON and YAML
// files. The body of a Markdown document becomes the "description" metadata.
//
// Loam does not list files whose base name carries a dot besides the
// extension, so a blueprint with a dotted ID lives one directory per segment
// and names itself in the header:
//
//	math/add.md
//	---
//	id: math.add
//	---
//
// Loaders created WithRoot log a warning for every document file Loam skipped,
// and Unlisted returns them.
package loam
