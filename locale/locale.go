// Package locale provides the label translation tables. A table is plain
// data handed to whoever renders labels; there is no process-wide language
// state.
package locale

// Table maps label keys to their translated text.
type Table map[string]string

var english = Table{
	"kill": "kill",
	"exp":  "exp",
	"min":  "min",
	"max":  "max",
	"lvl":  "lvl",
}

var russian = Table{
	"kill": "убит",
	"exp":  "эгида",
	"min":  "мин",
	"max":  "макс",
	"lvl":  "ур",
}

// For returns the table for a language code. Unknown codes fall back to
// English.
func For(lang string) Table {
	switch lang {
	case "ru":
		return russian
	default:
		return english
	}
}

// Get looks up a key, falling back to the English text so that a sparse
// table never yields an empty label.
func (t Table) Get(key string) string {
	if t != nil {
		if s, ok := t[key]; ok {
			return s
		}
	}
	return english[key]
}
