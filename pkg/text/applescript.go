package text

import (
	"strings"
)

// ScriptGlob selects AppleScript sources.
const ScriptGlob = "*.applescript"

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// 🍎 QuoteAppleScript returns s as an AppleScript string literal
func QuoteAppleScript(s string) string {
	return `"` + appleScriptEscaper.Replace(s) + `"`
}

// 🍎 SetProperty returns a rule giving an unset script property
// ("property name : missing value") the string value.
func SetProperty(name, value string) ReplacementRule {
	return ReplacementRule{
		FromText:       "property " + name + " : missing value",
		ToText:         "property " + name + " : " + QuoteAppleScript(value),
		FileFilterGlob: ScriptGlob,
	}
}
