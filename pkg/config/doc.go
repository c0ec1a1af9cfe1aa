/*
Package config manages configuration parsing and validation for newdoc.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +-----------+-----------+-----------+
	      |           |                       |
	+-----+-----+ +---+-----+           +----+----+
	|   YAML    | |  JSON   |           |   HCL   |
	| Parser    | | Parser  |           | Parser  |
	+-----------+ +---------+           +---------+

🎯 Purpose:
- Locates the resource bundle holding templates and localization tables
- Tunes the uniqueness probe bound and the post-copy behaviour
- Describes an optional remote template source for `newdoc templates pull`

🔄 Flow:
1. Reads configuration from file (XDG config home by default)
2. Parses format-specific syntax
3. Validates configuration values and fills in defaults

🔍 Example:

	cfg, err := config.LoadOrDefault(ctx, config.DefaultPath())
*/
package config
