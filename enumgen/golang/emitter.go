package golang

import (
	"bytes"
	"fmt"
	"go/constant"
	"go/format"
	"go/token"
	"strconv"
	"strings"

	"github.com/broady/openenum/enumgen/ir"
	"github.com/broady/openenum/enumgen/sink"
)

// Emitter writes Go declarations for open enums.
type Emitter struct {
	config Config
}

// NewEmitter returns an Emitter for cfg.
func NewEmitter(cfg Config) *Emitter {
	return &Emitter{config: cfg.withDefaults()}
}

// EmitFile renders a complete, gofmt'd Go source file for f. The file must
// have passed ir.File.Validate.
func (e *Emitter) EmitFile(f *ir.File) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(sink.GeneratedHeader)
	buf.WriteString("\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", f.Package.Name)

	var imports []string
	if e.uses(f, ir.FormatTable) {
		imports = append(imports, e.config.RuntimeImport)
	}
	if e.uses(f, ir.FormatSwitch) {
		imports = append(imports, "strconv")
	}
	switch len(imports) {
	case 0:
	case 1:
		fmt.Fprintf(&buf, "import %q\n\n", imports[0])
	default:
		buf.WriteString("import (\n")
		for _, imp := range imports {
			fmt.Fprintf(&buf, "\t%q\n", imp)
		}
		buf.WriteString(")\n\n")
	}

	for i, enum := range f.Enums {
		if i > 0 {
			buf.WriteString("\n")
		}
		if err := e.EmitEnum(&buf, enum); err != nil {
			return nil, err
		}
	}

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return out, nil
}

func (e *Emitter) uses(f *ir.File, style ir.FormatStyle) bool {
	for _, enum := range f.Enums {
		if enum.FormatStyle() == style {
			return true
		}
	}
	return false
}

// EmitEnum writes the type, constants, raw conversions and String method for
// one enum. The output is not formatted.
func (e *Emitter) EmitEnum(buf *bytes.Buffer, enum *ir.EnumSpec) error {
	typeName, err := enum.TypeIdent()
	if err != nil {
		return fmt.Errorf("enum %s: %w", enum.Name, err)
	}
	repr := enum.Repr.String()

	// Type definition.
	if e.config.OmitComments {
		if len(enum.Extras) > 0 {
			e.emitExtras(buf, enum.Extras)
		}
	} else {
		doc := enum.Documentation.Body
		if doc == "" {
			doc = fmt.Sprintf("%s is an open enumeration: every %s value is a valid %s.", typeName, repr, typeName)
		}
		emitComment(buf, "", doc)
		if len(enum.Extras) > 0 {
			buf.WriteString("//\n")
			e.emitExtras(buf, enum.Extras)
		}
	}
	fmt.Fprintf(buf, "type %s %s\n", typeName, repr)

	// Constant definitions.
	if len(enum.Variants) > 0 {
		buf.WriteString("\nconst (\n")
		for _, v := range enum.Variants {
			ident, err := enum.ConstIdent(v)
			if err != nil {
				return fmt.Errorf("enum %s: %w", enum.Name, err)
			}
			if !e.config.OmitComments && v.Documentation.Body != "" {
				emitComment(buf, "\t", v.Documentation.Body)
			}
			fmt.Fprintf(buf, "\t%s %s = %s\n", ident, typeName, strings.TrimSpace(v.Literal))
		}
		buf.WriteString(")\n")
	}

	// Raw conversions.
	fromBits := typeName + "FromBits"
	buf.WriteString("\n")
	if !e.config.OmitComments {
		fmt.Fprintf(buf, "// %s reinterprets bits as a %s. Every %s is a valid %s.\n", fromBits, typeName, repr, typeName)
	}
	fmt.Fprintf(buf, "func %s(bits %s) %s { return %s(bits) }\n\n", fromBits, repr, typeName, typeName)
	if !e.config.OmitComments {
		fmt.Fprintf(buf, "// Bits returns the underlying %s of v.\n", repr)
	}
	fmt.Fprintf(buf, "func (v %s) Bits() %s { return %s(v) }\n", typeName, repr, repr)

	// Formatter definition.
	switch enum.FormatStyle() {
	case ir.FormatSwitch:
		return e.emitSwitchString(buf, enum, typeName)
	default:
		return e.emitTableString(buf, enum, typeName)
	}
}

// emitTableString emits a name table in declaration order and a String
// method that defers to openenum.Format. Duplicate values stay in the table;
// Format returns the first match.
func (e *Emitter) emitTableString(buf *bytes.Buffer, enum *ir.EnumSpec, typeName string) error {
	table := "_" + typeName + "_names"
	pkg := runtimePackageName(e.config.RuntimeImport)

	fmt.Fprintf(buf, "\nvar %s = [...]%s.Name[%s]{", table, pkg, typeName)
	if len(enum.Variants) > 0 {
		buf.WriteString("\n")
	}
	for _, v := range enum.Variants {
		ident, err := enum.ConstIdent(v)
		if err != nil {
			return fmt.Errorf("enum %s: %w", enum.Name, err)
		}
		fmt.Fprintf(buf, "\t{Name: %s, Value: %s},\n", strconv.Quote(v.Name), ident)
	}
	buf.WriteString("}\n\n")

	if !e.config.OmitComments {
		fmt.Fprintf(buf, "// String returns the first declared name for v, or %s(n) if v has none.\n", typeName)
	}
	fmt.Fprintf(buf, "func (v %s) String() string {\n", typeName)
	fmt.Fprintf(buf, "\treturn %s.Format(%s, %s[:], v)\n", pkg, strconv.Quote(typeName), table)
	buf.WriteString("}\n")
	return nil
}

// emitSwitchString emits a self-contained String method. Go rejects
// duplicate constant cases, so a variant whose value was already seen is
// skipped: its earlier twin produces the same output anyway.
func (e *Emitter) emitSwitchString(buf *bytes.Buffer, enum *ir.EnumSpec, typeName string) error {
	buf.WriteString("\n")
	if !e.config.OmitComments {
		fmt.Fprintf(buf, "// String returns the first declared name for v, or %s(n) if v has none.\n", typeName)
	}
	cases, err := firstNames(enum)
	if err != nil {
		return err
	}
	idents := make(map[string]bool, len(enum.Variants))
	for _, v := range enum.Variants {
		ident, err := enum.ConstIdent(v)
		if err != nil {
			return fmt.Errorf("enum %s: %w", enum.Name, err)
		}
		idents[ident] = true
	}
	// The receiver must not shadow a constant named in a case clause.
	recv := "v"
	for idents[recv] {
		recv += "_"
	}

	fmt.Fprintf(buf, "func (%s %s) String() string {\n", recv, typeName)
	if len(cases) > 0 {
		fmt.Fprintf(buf, "\tswitch %s {\n", recv)
		for _, v := range cases {
			ident, err := enum.ConstIdent(v)
			if err != nil {
				return fmt.Errorf("enum %s: %w", enum.Name, err)
			}
			fmt.Fprintf(buf, "\tcase %s:\n\t\treturn %s\n", ident, strconv.Quote(v.Name))
		}
		buf.WriteString("\t}\n")
	}

	if enum.Repr.Signed {
		fmt.Fprintf(buf, "\treturn %s + strconv.FormatInt(int64(%s), 10) + \")\"\n", strconv.Quote(typeName+"("), recv)
	} else {
		fmt.Fprintf(buf, "\treturn %s + strconv.FormatUint(uint64(%s), 10) + \")\"\n", strconv.Quote(typeName+"("), recv)
	}
	buf.WriteString("}\n")
	return nil
}

// firstNames returns the variants that win formatting: for each distinct
// value, the earliest declared variant.
func firstNames(enum *ir.EnumSpec) ([]ir.Variant, error) {
	var out []ir.Variant
	var seen []constant.Value
outer:
	for _, v := range enum.Variants {
		val, err := v.Value()
		if err != nil {
			return nil, fmt.Errorf("enum %s: variant %s: %w", enum.Name, v.Name, err)
		}
		for _, s := range seen {
			if constant.Compare(s, token.EQL, val) {
				continue outer
			}
		}
		seen = append(seen, val)
		out = append(out, v)
	}
	return out, nil
}

func (e *Emitter) emitExtras(buf *bytes.Buffer, extras []string) {
	for _, extra := range extras {
		buf.WriteString("//")
		buf.WriteString(extra)
		buf.WriteString("\n")
	}
}

// emitComment writes text as // comment lines with the given indent.
func emitComment(buf *bytes.Buffer, indent, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		buf.WriteString(indent)
		if line == "" {
			buf.WriteString("//\n")
			continue
		}
		buf.WriteString("// ")
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

// runtimePackageName returns the package name the runtime import is
// referenced by: the last path element.
func runtimePackageName(importPath string) string {
	if i := strings.LastIndex(importPath, "/"); i >= 0 {
		return importPath[i+1:]
	}
	return importPath
}
