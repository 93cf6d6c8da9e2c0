package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"quanta/internal/blocks"
	"quanta/internal/isa"
)

// nameDB hands out collision-free identifiers for workspace variables.
// Names that collide with a reserved word or an earlier name get a numeric
// suffix starting at 2.
type nameDB struct {
	reserved map[string]bool
	taken    map[string]bool
	byKey    map[string]string
}

func newNameDB(reserved []string) *nameDB {
	db := &nameDB{
		reserved: make(map[string]bool, len(reserved)),
		taken:    make(map[string]bool),
		byKey:    make(map[string]string),
	}
	for _, w := range reserved {
		db.reserved[w] = true
	}
	return db
}

// reservedWords is every mnemonic plus every register name.
func reservedWords() []string {
	words := make([]string, 0, len(aliases)*2+len(isa.Registers))
	for _, a := range Aliases() {
		words = append(words, a.Mnemonic, strings.ToLower(a.Mnemonic), strings.ToUpper(a.Mnemonic))
	}
	return append(words, isa.Registers...)
}

// name returns the identifier for a variable. The same name and type
// always map to the same identifier; names are compared case-insensitively.
func (db *nameDB) name(v blocks.Variable) string {
	key := strings.ToLower(v.Name) + "_" + variableKind(v)
	if got, ok := db.byKey[key]; ok {
		return got
	}
	got := db.distinct(v.Name)
	db.byKey[key] = got
	return got
}

func variableKind(v blocks.Variable) string {
	if v.Developer {
		return "DEVELOPER_VARIABLE"
	}
	return "VARIABLE"
}

func (db *nameDB) distinct(name string) string {
	base := safeName(name)
	candidate := base
	for i := 2; db.taken[candidate] || db.reserved[candidate]; i++ {
		candidate = base + strconv.Itoa(i)
	}
	db.taken[candidate] = true
	return candidate
}

// safeName turns arbitrary editor text into an identifier: spaces become
// underscores, characters outside [A-Za-z0-9_] are percent-escaped with
// the escape marker replaced by '_', and a leading digit gets a "my_"
// prefix.
func safeName(name string) string {
	if name == "" {
		return "unnamed"
	}
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == ' ' || c == '_':
			sb.WriteByte('_')
		case isWordByte(c):
			sb.WriteByte(c)
		case c < 0x80 && uriSafe(c):
			sb.WriteByte('_')
		default:
			fmt.Fprintf(&sb, "_%02X", c)
		}
	}
	out := sb.String()
	if out[0] >= '0' && out[0] <= '9' {
		out = "my_" + out
	}
	return out
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// uriSafe reports ASCII punctuation left alone by URI encoding.
func uriSafe(c byte) bool {
	return strings.IndexByte(";,/?:@&=+$-.!~*'()#", c) >= 0
}
