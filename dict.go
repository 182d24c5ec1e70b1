package main

import "unicode/utf8"

// word is a dictionary entry. Primitive words carry an opcode; composite
// words carry opEnter and a body of word indices, where each occurrence of
// the literal word is followed by one inline value.
type word struct {
	name      uint
	immediate bool
	code      opcode
	body      []Cell
}

// dictionary is an append-only arena of words addressed by index. Later
// definitions shadow earlier ones of the same name.
type dictionary struct {
	symbols
	words []word

	dictSize int
	bodySize int
	nameSize int
}

type symbols struct {
	strings []string
	symbols map[string]uint
}

func (sym symbols) string(id uint) string {
	if i := int(id) - 1; i >= 0 && i < len(sym.strings) {
		return sym.strings[i]
	}
	return ""
}

func (sym symbols) symbol(s string) uint {
	return sym.symbols[s]
}

func (sym *symbols) symbolicate(s string) (id uint) {
	id, defined := sym.symbols[s]
	if !defined {
		if sym.symbols == nil {
			sym.symbols = make(map[string]uint)
		}
		id = uint(len(sym.strings)) + 1
		sym.strings = append(sym.strings, s)
		sym.symbols[s] = id
	}
	return id
}

// lookup finds the newest word with the given name.
func (dict *dictionary) lookup(name string) (uint, bool) {
	id := dict.symbol(name)
	if id == 0 {
		return 0, false
	}
	for i := len(dict.words) - 1; i >= 0; i-- {
		if dict.words[i].name == id {
			return uint(i), true
		}
	}
	return 0, false
}

func (dict *dictionary) wordName(w uint) string {
	if w < uint(len(dict.words)) {
		return dict.string(dict.words[w].name)
	}
	return ""
}

func (dict *dictionary) addWord(name string, code opcode, immediate bool) (uint, error) {
	if name == "" {
		return 0, DefinitionMissingName
	}
	if dict.nameSize > 0 && utf8.RuneCountInString(name) > dict.nameSize {
		return 0, NameTooLong
	}
	if len(dict.words) >= dict.dictSize {
		return 0, DictionaryFull
	}
	dict.words = append(dict.words, word{
		name:      dict.symbolicate(name),
		immediate: immediate,
		code:      code,
	})
	return uint(len(dict.words) - 1), nil
}

// appendBody extends the body of word w, all entries or none.
func (dict *dictionary) appendBody(w uint, entries ...Cell) error {
	wd := &dict.words[w]
	if len(wd.body)+len(entries) > dict.bodySize {
		return DefinitionTooLong
	}
	wd.body = append(wd.body, entries...)
	return nil
}
