package mcpserver

// DefinitionFormatContract describes the canonical definition file formats
// that LLM consumers should follow when creating definitions.
const DefinitionFormatContract = `# Gloss Definition Format Contract

Definitions live in Markdown files inside the configured glossary folder.
Two formats are supported.

## Atomic files (one definition per file)

The filename stem is the phrase. Aliases go in frontmatter; everything after
the frontmatter is the definition body.

` + "```" + `markdown
---
def-type: atomic
aliases:
  - gadget
  - gizmo
---

A widget is a small mechanical device.
` + "```" + `

## Consolidated files (many definitions per file)

Each block starts with a ` + "`" + `# Phrase` + "`" + ` header. An optional alias line
immediately follows, wrapped in single asterisks with comma-separated values.
Blocks are separated by a divider line.

` + "```" + `markdown
# Widget
*gadget, gizmo*

A widget is a small mechanical device.

---

# Sprocket

A toothed wheel.
` + "```" + `

## Rules

1. **Format detection** uses the ` + "`" + `def-type` + "`" + ` frontmatter key. Only an
   explicit ` + "`" + `def-type: atomic` + "`" + ` makes a file atomic; every other file in
   the glossary folder is parsed as consolidated.
2. **Headers** in consolidated files use exactly one ` + "`" + `#` + "`" + ` followed by a
   space. Deeper headings are treated as body content.
3. **Alias lines** must be the first line after the header: ` + "`" + `*alias-one, alias-two*` + "`" + `.
4. **Dividers** are lines of exactly ` + "`" + `---` + "`" + ` (or ` + "`" + `___` + "`" + ` when the
   vault is configured for underscore dividers). A divider ends the current block.
5. **Matching is case-insensitive**: define ` + "`" + `# Widget` + "`" + ` once, not per casing.
6. **Context scoping** is optional: a ` + "`" + `def-context` + "`" + ` frontmatter list
   restricts which documents see the file's definitions.
7. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes.
8. **Encoding** is UTF-8 with a trailing newline.
`
