package theme

import (
	"os"
	"strings"
)

// SymbolSet holds the glyphs the UI draws.
type SymbolSet struct {
	Done     string
	Todo     string
	Error    string
	Cursor   string
	Bullet   string
	Ellipsis string
}

var unicodeSymbols = SymbolSet{
	Done:     "\u2713", // ✓
	Todo:     "\u25CB", // ○
	Error:    "\u2717", // ✗
	Cursor:   "\u203A", // ›
	Bullet:   "\u2022", // •
	Ellipsis: "\u2026", // …
}

var asciiSymbols = SymbolSet{
	Done:     "[x]",
	Todo:     "[ ]",
	Error:    "[ERR]",
	Cursor:   ">",
	Bullet:   "*",
	Ellipsis: "...",
}

// DetectUnicodeSupport reports whether the terminal likely renders UTF-8.
// TODOAI_ASCII_SYMBOLS=1 forces ASCII.
func DetectUnicodeSupport() bool {
	if v := os.Getenv("TODOAI_ASCII_SYMBOLS"); v == "1" || strings.EqualFold(v, "true") {
		return false
	}
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		val := strings.ToLower(os.Getenv(key))
		if strings.Contains(val, "utf-8") || strings.Contains(val, "utf8") {
			return true
		}
	}
	return true
}

// InitSymbols picks the symbol set for the current terminal.
func InitSymbols() {
	set := unicodeSymbols
	if !DetectUnicodeSupport() {
		set = asciiSymbols
	}
	SymbolDone = set.Done
	SymbolTodo = set.Todo
	SymbolError = set.Error
	SymbolCursor = set.Cursor
	SymbolBullet = set.Bullet
	SymbolEllipsis = set.Ellipsis
}

func init() {
	InitSymbols()
}
