// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package dart emits Flutter/Dart form sources: model, UI widget, per-language
// string tables, the keys interface and setup data.
package dart

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"github.com/dacolabs/formgen/internal/emit"
	"github.com/dacolabs/formgen/internal/schema"
)

//go:embed templates/*.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.ParseFS(tmplFS, "templates/*.tmpl"))

const (
	// KeysFile is the shared accessor-declaration file.
	KeysFile = "keys.dart"
	// SetupFile is the shared options table.
	SetupFile = "setupData.dart"
)

// ErrInvalidClass is returned when a class name is not a Dart identifier.
var ErrInvalidClass = errors.New("invalid class name")

// Emitter emits Flutter/Dart sources.
type Emitter struct{}

func init() {
	emit.Register(&Emitter{})
}

// Name returns the emitter identifier.
func (e *Emitter) Name() string {
	return "dart"
}

// FileExtension returns the file extension for Dart source files.
func (e *Emitter) FileExtension() string {
	return ".dart"
}

// Emit renders <class>_model.dart and <class>_ui_widget.dart.
func (e *Emitter) Emit(s *schema.Schema, meta emit.Meta) ([]emit.File, error) {
	class, err := className(s, meta)
	if err != nil {
		return nil, err
	}
	h := header{Class: class, Date: meta.Date}
	stem := fileStem(class)

	model, err := render("model.dart.tmpl", newModelView(h, s))
	if err != nil {
		return nil, err
	}
	ui, err := render("ui_widget.dart.tmpl", newWidgetView(h, s))
	if err != nil {
		return nil, err
	}

	return []emit.File{
		{Name: stem + "_model" + e.FileExtension(), Content: model},
		{Name: stem + "_ui_widget" + e.FileExtension(), Content: ui},
	}, nil
}

// EmitShared renders one languages_<class>_<lang>.dart per language, keys.dart and
// setupData.dart. Every language file declares every key, empty when untranslated.
func (e *Emitter) EmitShared(s *schema.Schema, meta emit.Meta) ([]emit.File, error) {
	class, err := className(s, meta)
	if err != nil {
		return nil, err
	}
	h := header{Class: class, Date: meta.Date}

	keys := make([]string, len(s.Localization.Keys))
	for i, k := range s.Localization.Keys {
		keys[i] = Ident(k)
	}

	var files []emit.File
	for _, lang := range s.Languages {
		v := languageView{header: h, Language: string(lang), Name: languageClass(lang)}
		for _, k := range s.Localization.Keys {
			v.Entries = append(v.Entries, entryView{
				Key:   Ident(k),
				Value: String(s.Localization.Value(lang, k)),
			})
		}
		content, err := render("language.dart.tmpl", v)
		if err != nil {
			return nil, err
		}
		name := "languages_" + fileStem(class) + "_" + lang.Column() + e.FileExtension()
		files = append(files, emit.File{Name: name, Content: content})
	}

	content, err := render("keys.dart.tmpl", keysView{header: h, Keys: keys})
	if err != nil {
		return nil, err
	}
	files = append(files, emit.File{Name: KeysFile, Content: content})

	content, err = render("setup_data.dart.tmpl", newSetupView(h, s))
	if err != nil {
		return nil, err
	}
	files = append(files, emit.File{Name: SetupFile, Content: content})

	return files, nil
}

func className(s *schema.Schema, meta emit.Meta) (string, error) {
	class := meta.Class
	if class == "" {
		class = s.Class
	}
	if !schema.IsClassName(class) {
		return "", errors.Wrapf(ErrInvalidClass, "%q is not a Dart class name", class)
	}
	return class, nil
}

func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, errors.Wrapf(err, "failed to execute template %s", name)
	}
	return buf.Bytes(), nil
}

type header struct {
	Class string
	Date  string
}

type fieldView struct {
	Name     string // Dart member name
	JSONKey  string // quoted storage key
	Type     string
	Zero     string
	FromJSON string
}

type modelView struct {
	header
	Fields   []fieldView
	ToString string
}

func newModelView(h header, s *schema.Schema) modelView {
	v := modelView{header: h}
	parts := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		p := f.Primitive()
		name := Ident(f.Name)
		v.Fields = append(v.Fields, fieldView{
			Name:     name,
			JSONKey:  String(f.Name),
			Type:     Type(p),
			Zero:     zero(p),
			FromJSON: fromJSON(f.Name, p),
		})
		parts = append(parts, f.Name+": ${"+name+"}")
	}
	v.ToString = "'" + h.Class + "(" + strings.Join(parts, ", ") + ")'"
	return v
}

type blockView struct {
	Number      int
	Serial      string // quoted, empty when the row has none
	LabelKey    string
	QuestionKey string
	SelectedKey string // quoted question key
	FieldType   string
	Numeric     bool
	Model       string
	DataList    string
	Assign      string
	Selected    string
}

type widgetView struct {
	header
	Var        string
	Stem       string
	HasSerials bool
	Blocks     []blockView
}

func newWidgetView(h header, s *schema.Schema) widgetView {
	v := widgetView{
		header:     h,
		Var:        Ident(strings.ToLower(h.Class)),
		Stem:       fileStem(h.Class),
		HasSerials: s.HasSerials(),
	}
	for _, w := range s.Widgets {
		field := v.Var + "." + Ident(w.StorageKey)
		p := w.Kind.Primitive()
		if f, ok := s.Field(w.StorageKey); ok {
			p = f.Primitive()
		}

		b := blockView{
			Number:      w.Number,
			LabelKey:    Ident(w.LabelKey),
			QuestionKey: Ident(w.QuestionKey),
			SelectedKey: String(w.QuestionKey),
			FieldType:   "AppConstant." + fieldTypes[w.Kind.FieldType()],
			Numeric:     w.Kind == schema.Number,
			Model:       display(field, p),
			DataList:    dataList(w.Kind, Ident(w.OptionsKey)),
			Assign:      parse(field, p),
			Selected:    "value",
		}
		if w.Serial != "" {
			b.Serial = String(w.Serial)
		}
		if w.Kind.IsChoice() {
			b.Selected = "SetupConstant." + Ident(w.OptionsKey) + " + AppConstant.SEPERATOR + value"
		}
		v.Blocks = append(v.Blocks, b)
	}
	return v
}

type entryView struct {
	Key   string
	Value string
}

type languageView struct {
	header
	Language string
	Name     string
	Entries  []entryView
}

type keysView struct {
	header
	Keys []string
}

type optionView struct {
	Key   string
	Value string
}

type groupView struct {
	Constant      string
	Discriminator string
	Options       []optionView
}

type setupView struct {
	header
	Groups []groupView
}

func newSetupView(h header, s *schema.Schema) setupView {
	v := setupView{header: h}
	for _, g := range s.Groups {
		gv := groupView{Constant: Ident(g.Constant), Discriminator: String(g.Discriminator)}
		for _, o := range g.Options {
			gv.Options = append(gv.Options, optionView{Key: Ident(o.Key), Value: String(o.Value)})
		}
		v.Groups = append(v.Groups, gv)
	}
	return v
}
