package diag

import (
	"fmt"
)

// Code is a compact diagnostic identifier with a stable string form.
// 1000..1999 are syntax-frontend codes, 2000..2999 are sort-rule codes,
// 3000..3999 are driver I/O codes.
type Code uint16

const (
	UnknownCode Code = 0

	// Syntax frontend
	SynUnknownChar         Code = 1001
	SynUnterminatedString  Code = 1002
	SynUnterminatedComment Code = 1003
	SynUnexpectedToken     Code = 1004
	SynExpectIdentifier    Code = 1005
	SynExpectAttrArgument  Code = 1006
	SynDuplicateClass      Code = 1007

	// Sort-marker rules. The numeric tail is the public rule id.
	SortMissingDefault    Code = 2001
	SortInvalidDefaultRef Code = 2002
	SortUnusedDefault     Code = 2003
	SortInvalidType       Code = 2004

	// Driver
	IOLoadFileError Code = 3001
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	SynUnknownChar:         "Unknown character",
	SynUnterminatedString:  "Unterminated string literal",
	SynUnterminatedComment: "Unterminated block comment",
	SynUnexpectedToken:     "Unexpected token",
	SynExpectIdentifier:    "Expected identifier",
	SynExpectAttrArgument:  "Expected attribute argument",
	SynDuplicateClass:      "Duplicate class declaration",
	SortMissingDefault:     "Missing default sort property",
	SortInvalidDefaultRef:  "Default sort property is not sortable",
	SortUnusedDefault:      "Unused default sort marker",
	SortInvalidType:        "Unsupported sortable property type",
	IOLoadFileError:        "Failed to load file",
}

// IsSyntax reports whether the code belongs to the syntax-frontend band.
func (c Code) IsSyntax() bool {
	return c >= 1000 && c < 2000
}

// ID returns the stable public identifier, e.g. "SORT001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SYN%03d", ic-1000)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SORT%03d", ic-2000)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IO%03d", ic-3000)
	}
	return "E000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
