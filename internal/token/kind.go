package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident       // foo, \escaped
	Keyword     // module, always_ff, ...
	SystemIdent // $display
	Directive   // `define, `FOO
	Number      // 42, 8'hFF, 'b0, '1, 1.5e3
	String      // "text"

	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }
	Semicolon // ;
	Comma     // ,
	Dot       // .
	Colon     // :
	ColonColon
	Assign     // =
	LtEq       // <= (nonblocking assignment or comparison)
	OpAssign   // += -= *= /= %= &= |= ^= <<= >>= <<<= >>>=
	Inc        // ++
	Dec        // --
	Hash       // #
	HashHash   // ##
	At         // @
	Question   // ?
	Apostrophe // ' (casts, assignment patterns)
	Backslash  // \ outside an escaped identifier (macro line continuation)
	Op         // any other operator
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	Keyword:     "Keyword",
	SystemIdent: "SystemIdent",
	Directive:   "Directive",
	Number:      "Number",
	String:      "String",
	LParen:      "(",
	RParen:      ")",
	LBracket:    "[",
	RBracket:    "]",
	LBrace:      "{",
	RBrace:      "}",
	Semicolon:   ";",
	Comma:       ",",
	Dot:         ".",
	Colon:       ":",
	ColonColon:  "::",
	Assign:      "=",
	LtEq:        "<=",
	OpAssign:    "op=",
	Inc:         "++",
	Dec:         "--",
	Hash:        "#",
	HashHash:    "##",
	At:          "@",
	Question:    "?",
	Apostrophe:  "'",
	Backslash:   "\\",
	Op:          "Op",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
