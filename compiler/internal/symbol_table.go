package internal

// reservedNames are the c keywords and stdio names a generated program can't declare again.
var reservedNames = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true, "continue": true, "default": true,
	"do": true, "double": true, "else": true, "enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "register": true, "restrict": true, "return": true,
	"short": true, "signed": true, "sizeof": true, "static": true, "struct": true, "switch": true, "typedef": true,
	"union": true, "unsigned": true, "void": true, "volatile": true, "while": true,
	"printf": true, "scanf": true,
	"EOF": true, "NULL": true, "BUFSIZ": true,
}

func isReserved(name string) bool {
	return reservedNames[name]
}

// SymbolTable is the set of variables declared by LET and INPUT. Every variable has the same numeric type, so a
// symbol carries no type, only its name and the order it was first declared in.
type SymbolTable struct {
	symbols map[string]*SymbolDesc
	order   []*SymbolDesc
}

type SymbolDesc struct {
	name string
	line int // line of the first declaration
}

func (desc *SymbolDesc) Name() string {
	return desc.name
}

func (desc *SymbolDesc) Line() int {
	return desc.line
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]*SymbolDesc{}}
}

// declare registers name. Declaring an existing name again is allowed and keeps the first slot.
func (table *SymbolTable) declare(name string, line int) *SymbolDesc {
	desc, ok := table.symbols[name]
	if ok {
		return desc
	}
	desc = &SymbolDesc{name: name, line: line}
	table.symbols[name] = desc
	table.order = append(table.order, desc)
	return desc
}

func (table *SymbolTable) lookUp(name string) *SymbolDesc {
	return table.symbols[name]
}

func (table *SymbolTable) Contains(name string) bool {
	return table.lookUp(name) != nil
}

func (table *SymbolTable) Len() int {
	return len(table.order)
}

// Symbols returns the declared symbols in first-declaration order.
func (table *SymbolTable) Symbols() []*SymbolDesc {
	return append([]*SymbolDesc(nil), table.order...)
}

// Names returns the declared names in first-declaration order.
func (table *SymbolTable) Names() []string {
	names := make([]string, 0, len(table.order))
	for _, desc := range table.order {
		names = append(names, desc.name)
	}
	return names
}

// LabelTable tracks labels declared by LABEL and labels jumped to by GOTO.
type LabelTable struct {
	declared   map[string]int // label -> line
	referenced map[string]int // label -> line of the first GOTO
	order      []string
}

func NewLabelTable() *LabelTable {
	return &LabelTable{
		declared:   map[string]int{},
		referenced: map[string]int{},
	}
}

// declare returns false when the label already exists.
func (table *LabelTable) declare(name string, line int) bool {
	if _, ok := table.declared[name]; ok {
		return false
	}
	table.declared[name] = line
	table.order = append(table.order, name)
	return true
}

func (table *LabelTable) reference(name string, line int) {
	if _, ok := table.referenced[name]; ok {
		return
	}
	table.referenced[name] = line
}

func (table *LabelTable) IsDeclared(name string) bool {
	_, ok := table.declared[name]
	return ok
}

func (table *LabelTable) IsReferenced(name string) bool {
	_, ok := table.referenced[name]
	return ok
}

// Declared returns the declared labels in declaration order.
func (table *LabelTable) Declared() []string {
	return append([]string(nil), table.order...)
}

// Unreferenced returns the declared labels no GOTO jumps to.
func (table *LabelTable) Unreferenced() []string {
	var ret []string
	for _, name := range table.order {
		if !table.IsReferenced(name) {
			ret = append(ret, name)
		}
	}
	return ret
}
