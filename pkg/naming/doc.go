/*
Package naming turns raw template filenames into document names.

🎯 Purpose:
- Resolver derives the localized menu caption and document name of a template
- Engine makes a document name unique inside a destination directory

🔄 Flow:

	"invoice.pages" ──Resolver──▶ "New Invoice.pages" ──Engine──▶ "New Invoice 2.pages"

📝 Naming rules:
- The extension set is everything from the FIRST dot; it is never modified.
- Menu captions drop only the LAST extension: "report.v2.docx" shows as
  "Report.v2" but creates "Report.v2.docx".
- Collisions insert " N" before the extension set, N counting from 2.

The uniqueness probe is check-then-act: nothing is reserved between the probe
and the copy that follows it.
*/
package naming
