// Package settings holds the generator settings: the JUnit version, the
// request style and the shared base class the generated tests extend.
//
// Settings live in a small SQLite database (see Store) and are handed to the
// generator as an immutable Snapshot.
package settings

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/igetcool/icodetest/internal/layout"
)

// Keys under which the settings are persisted.
const (
	KeyJUnit         = "icodetest.plugin.junit.selected"
	KeyStyle         = "icodetest.plugin.type.selected"
	KeyCommonPackage = "icodetest.plugin.common.packageName"
	KeyCommonClass   = "icodetest.plugin.common.className"
	KeyCommonBody4   = "icodetest.plugin.common.classBody4"
	KeyCommonBody5   = "icodetest.plugin.common.classBody5"
)

// Keys lists every persisted key in a stable order.
var Keys = []string{KeyJUnit, KeyStyle, KeyCommonPackage, KeyCommonClass, KeyCommonBody4, KeyCommonBody5}

// Snapshot is a complete set of settings values.
type Snapshot struct {
	JUnit         layout.JUnit `yaml:"junit" validate:"required,oneof=JUnit4 JUnit5"`
	Style         string       `yaml:"style" validate:"required,oneof=MethodCall MockMvc"`
	CommonPackage string       `yaml:"common_package" validate:"required,java_package"`
	CommonClass   string       `yaml:"common_class" validate:"required,java_ident"`
	CommonBody4   string       `yaml:"common_body_junit4" validate:"required"`
	CommonBody5   string       `yaml:"common_body_junit5" validate:"required"`
}

// Defaults returns the built-in settings.
func Defaults() Snapshot {
	return Snapshot{
		JUnit:         layout.JUnit4,
		Style:         "MethodCall",
		CommonPackage: "com.igetcool.commons",
		CommonClass:   "WebMvcBase",
		CommonBody4:   layout.CommonBody4,
		CommonBody5:   layout.CommonBody5,
	}
}

// Common names the shared base class.
func (s Snapshot) Common() layout.Common {
	return layout.Common{Package: s.CommonPackage, Class: s.CommonClass}
}

// CommonBody returns the base class template for the selected JUnit version.
func (s Snapshot) CommonBody() string {
	if s.JUnit == layout.JUnit5 {
		return s.CommonBody5
	}
	return s.CommonBody4
}

// Overrides replaces snapshot values for a single run. Empty fields keep the
// snapshot's value.
type Overrides struct {
	JUnit         string
	Style         string
	CommonPackage string
	CommonClass   string
}

// With returns a copy of s with the non-empty overrides applied.
func (s Snapshot) With(o Overrides) Snapshot {
	if o.JUnit != "" {
		s.JUnit = layout.JUnit(o.JUnit)
	}
	if o.Style != "" {
		s.Style = o.Style
	}
	if o.CommonPackage != "" {
		s.CommonPackage = o.CommonPackage
	}
	if o.CommonClass != "" {
		s.CommonClass = o.CommonClass
	}
	return s
}

// values maps the snapshot onto its persisted keys.
func (s Snapshot) values() map[string]string {
	return map[string]string{
		KeyJUnit:         string(s.JUnit),
		KeyStyle:         s.Style,
		KeyCommonPackage: s.CommonPackage,
		KeyCommonClass:   s.CommonClass,
		KeyCommonBody4:   s.CommonBody4,
		KeyCommonBody5:   s.CommonBody5,
	}
}

// set assigns a persisted value; unknown keys are ignored.
func (s *Snapshot) set(key, value string) {
	switch key {
	case KeyJUnit:
		s.JUnit = layout.JUnit(value)
	case KeyStyle:
		s.Style = value
	case KeyCommonPackage:
		s.CommonPackage = value
	case KeyCommonClass:
		s.CommonClass = value
	case KeyCommonBody4:
		s.CommonBody4 = value
	case KeyCommonBody5:
		s.CommonBody5 = value
	}
}

// Export writes s as YAML.
func (s Snapshot) Export(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return enc.Close()
}

// Import reads a YAML snapshot. Missing entries keep their defaults and the
// result is validated.
func Import(r io.Reader) (Snapshot, error) {
	s := Defaults()
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Snapshot{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := Validate(s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid settings")

var (
	javaIdent   = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	javaPackage = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("java_ident", func(fl validator.FieldLevel) bool {
		return javaIdent.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("java_package", func(fl validator.FieldLevel) bool {
		return javaPackage.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks every field of s.
func Validate(s Snapshot) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s fails %q (got %q)", ErrInvalid, fe.Field(), fe.Tag(), fmt.Sprint(fe.Value()))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
