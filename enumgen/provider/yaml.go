// Package provider builds ir.Files from enum definitions: YAML definition
// documents and //openenum: directives in Go source.
package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/doc"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/broady/openenum/enumgen/ir"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return ir.IsIdentifier(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// YAMLProvider reads enum definitions from a YAML document.
type YAMLProvider struct{}

// YAMLInputOptions configures YAML-based extraction. Exactly one of Path and
// Data is used; Data wins when both are set.
type YAMLInputOptions struct {
	// Path of the definition file.
	Path string

	// Data is the document content. Path, if set, names it in positions.
	Data []byte

	// DefaultPackage is used when the document has no package key.
	DefaultPackage string
}

type yamlDocument struct {
	Package string     `yaml:"package" validate:"omitempty,goident"`
	Enums   []yamlEnum `yaml:"enums" validate:"required,min=1,dive"`
}

type yamlEnum struct {
	Name       string        `yaml:"name" validate:"required,goident"`
	Repr       string        `yaml:"repr" validate:"required"`
	Visibility string        `yaml:"visibility" validate:"omitempty,oneof=exported unexported"`
	Scope      string        `yaml:"scope" validate:"omitempty,oneof=flat nested"`
	Format     string        `yaml:"format" validate:"omitempty,oneof=table switch"`
	Doc        string        `yaml:"doc"`
	Extras     []string      `yaml:"extras" validate:"dive,required"`
	Variants   []yamlVariant `yaml:"variants" validate:"dive"`
}

type yamlVariant struct {
	Name string `yaml:"name" validate:"required,goident"`
	// Value keeps the scalar's source text: 0x1F stays 0x1F.
	Value yaml.Node `yaml:"value" validate:"-"`
	Doc   string    `yaml:"doc"`
}

// BuildFile decodes and validates a definition document.
func (p *YAMLProvider) BuildFile(ctx context.Context, opts YAMLInputOptions) (*ir.File, error) {
	data := opts.Data
	if data == nil {
		if opts.Path == "" {
			return nil, errors.New("no YAML input specified")
		}
		var err error
		data, err = os.ReadFile(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("read definitions: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := opts.Path
	if name == "" {
		name = "<input>"
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	var document yamlDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&document); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty document", name)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := validate.Struct(document); err != nil {
		return nil, fmt.Errorf("%s: %w", name, describeValidation(err))
	}

	pos := positions{file: name, root: &root}
	f := &ir.File{
		Package: ir.PackageInfo{Name: document.Package},
		Origin:  name,
	}
	if f.Package.Name == "" {
		f.Package.Name = opts.DefaultPackage
	}

	var errs []error
	for i, ye := range document.Enums {
		src := pos.enum(i)
		repr, err := ir.ParseRepr(ye.Repr)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: enum %s: %w", src, ye.Name, err))
			continue
		}
		e := &ir.EnumSpec{
			Name:          ye.Name,
			Repr:          repr,
			Visibility:    ir.Visibility(ye.Visibility),
			Scope:         ir.ScopeMode(ye.Scope),
			Format:        ir.FormatStyle(ye.Format),
			Extras:        ye.Extras,
			Documentation: newDocumentation(ye.Doc),
			Source:        src,
		}
		for j, yv := range ye.Variants {
			vsrc := pos.variant(i, j)
			if yv.Value.Kind != yaml.ScalarNode || strings.TrimSpace(yv.Value.Value) == "" {
				errs = append(errs, fmt.Errorf("%s: enum %s: variant %s needs a scalar integer value", vsrc, ye.Name, yv.Name))
				continue
			}
			e.Variants = append(e.Variants, ir.Variant{
				Name:          yv.Name,
				Literal:       yv.Value.Value,
				Documentation: newDocumentation(yv.Doc),
				Source:        vsrc,
			})
		}
		f.AddEnum(e)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return f, nil
}

// positions maps document indexes back to source locations.
type positions struct {
	file string
	root *yaml.Node
}

func (p positions) enum(i int) ir.Source {
	return p.at(p.item(p.mapping(p.document(), "enums"), i))
}

func (p positions) variant(i, j int) ir.Source {
	enum := p.item(p.mapping(p.document(), "enums"), i)
	return p.at(p.item(p.mapping(enum, "variants"), j))
}

func (p positions) document() *yaml.Node {
	if p.root != nil && p.root.Kind == yaml.DocumentNode && len(p.root.Content) > 0 {
		return p.root.Content[0]
	}
	return nil
}

func (p positions) mapping(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for k := 0; k+1 < len(n.Content); k += 2 {
		if n.Content[k].Value == key {
			return n.Content[k+1]
		}
	}
	return nil
}

func (p positions) item(n *yaml.Node, i int) *yaml.Node {
	if n == nil || n.Kind != yaml.SequenceNode || i >= len(n.Content) {
		return nil
	}
	return n.Content[i]
}

func (p positions) at(n *yaml.Node) ir.Source {
	if n == nil {
		return ir.Source{File: p.file}
	}
	return ir.Source{File: p.file, Line: n.Line, Column: n.Column}
}

func newDocumentation(text string) ir.Documentation {
	text = strings.TrimSpace(text)
	if text == "" {
		return ir.Documentation{}
	}
	return ir.Documentation{
		Summary: new(doc.Package).Synopsis(text),
		Body:    text,
	}
}

// describeValidation turns validator errors into one line per field, keyed by
// the YAML path of the field.
func describeValidation(err error) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		_, path, _ := strings.Cut(ve.Namespace(), ".")
		messages = append(messages, path+": "+formatValidationError(ve))
	}
	return errors.New(strings.Join(messages, "; "))
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "goident":
		return fmt.Sprintf("%q is not a valid Go identifier", ve.Value())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
