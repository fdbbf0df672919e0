package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/matzehuels/typediagram/pkg/model"
)

// =============================================================================
// Parsed file
// =============================================================================

// parsedFile is one source after parsing, before references are resolved.
type parsedFile struct {
	path  string
	stem  string
	src   []byte
	decls []*parsedDecl

	// imports maps a local name to the module stem and exported name it
	// refers to. "default" stands for the default export.
	imports map[string]importRef

	// exported holds names listed in "export { A, B }" clauses.
	exported map[string]bool

	defaultName string
}

type importRef struct {
	stem string
	name string
}

type parsedDecl struct {
	decl *model.Declaration
	node *sitter.Node
	// local is the bare declared name, without type parameters.
	local string
}

func (f *parsedFile) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.src)
}

// =============================================================================
// Top-level declarations
// =============================================================================

func (f *parsedFile) collect(root *sitter.Node) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "import_statement":
			f.collectImport(n)
		case "export_statement":
			f.collectExport(n)
		default:
			f.collectDecl(n, false, false)
		}
	}
	for _, pd := range f.decls {
		if f.exported[pd.local] {
			pd.decl.Exported = true
		}
	}
}

func (f *parsedFile) collectExport(n *sitter.Node) {
	isDefault := false
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "default" {
			isDefault = true
		}
	}

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		f.collectDecl(decl, true, isDefault)
		return
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "class_declaration", "abstract_class_declaration", "class":
			f.collectDecl(c, true, isDefault)
		case "export_clause":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				name := f.text(spec.ChildByFieldName("name"))
				f.exported[name] = true
				if f.text(spec.ChildByFieldName("alias")) == "default" {
					f.defaultName = name
				}
			}
		case "identifier":
			if isDefault {
				f.defaultName = f.text(c)
				f.exported[f.defaultName] = true
			}
		}
	}
}

func (f *parsedFile) collectDecl(n *sitter.Node, exported, isDefault bool) {
	var kind model.Kind
	switch n.Type() {
	case "class_declaration", "abstract_class_declaration", "class":
		kind = model.KindClass
	case "interface_declaration":
		kind = model.KindInterface
	case "type_alias_declaration":
		if v := n.ChildByFieldName("value"); v == nil || v.Type() != "object_type" {
			return
		}
		kind = model.KindTypeAlias
	case "enum_declaration":
		kind = model.KindEnum
	default:
		return
	}

	local := f.text(n.ChildByFieldName("name"))
	if local == "" {
		if !isDefault {
			return
		}
		local = "default"
	}
	if isDefault {
		f.defaultName = local
	}

	d := &model.Declaration{
		Kind:     kind,
		Name:     local + typeParameters(f, n.ChildByFieldName("type_parameters")),
		ID:       model.NewID(f.path, local),
		Exported: exported,
	}
	f.decls = append(f.decls, &parsedDecl{decl: d, node: n, local: local})
}

// typeParameters renders "<A, B>" from the parameter names, dropping
// constraints and defaults.
func typeParameters(f *parsedFile, n *sitter.Node) string {
	if n == nil {
		return ""
	}
	var names []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		p := n.NamedChild(i)
		if p.Type() != "type_parameter" {
			continue
		}
		if name := p.ChildByFieldName("name"); name != nil {
			names = append(names, f.text(name))
		} else {
			names = append(names, f.text(p.NamedChild(0)))
		}
	}
	if len(names) == 0 {
		return ""
	}
	return "<" + strings.Join(names, ", ") + ">"
}

// =============================================================================
// Imports
// =============================================================================

func (f *parsedFile) collectImport(n *sitter.Node) {
	source := unquote(f.text(n.ChildByFieldName("source")))
	if !strings.HasPrefix(source, ".") {
		return
	}
	stem := joinModule(f.stem, source)

	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			c := clause.NamedChild(j)
			switch c.Type() {
			case "identifier":
				f.imports[f.text(c)] = importRef{stem: stem, name: "default"}
			case "named_imports":
				for k := 0; k < int(c.NamedChildCount()); k++ {
					spec := c.NamedChild(k)
					if spec.Type() != "import_specifier" {
						continue
					}
					name := f.text(spec.ChildByFieldName("name"))
					alias := f.text(spec.ChildByFieldName("alias"))
					if alias == "" {
						alias = name
					}
					f.imports[alias] = importRef{stem: stem, name: name}
				}
			}
		}
	}
}

func unquote(s string) string {
	return strings.Trim(s, "\"'`")
}

// =============================================================================
// Members
// =============================================================================

// members fills properties, methods, items and heritage of pd.
func (r *resolver) members(f *parsedFile, pd *parsedDecl) {
	d, n := pd.decl, pd.node
	switch d.Kind {
	case model.KindClass:
		r.classMembers(f, d, n.ChildByFieldName("body"))
		r.classHeritage(f, d, n)
	case model.KindInterface:
		body := n.ChildByFieldName("body")
		r.signatureMembers(f, d, body)
		r.interfaceHeritage(f, d, n)
	case model.KindTypeAlias:
		r.signatureMembers(f, d, n.ChildByFieldName("value"))
	case model.KindEnum:
		body := n.ChildByFieldName("body")
		if body == nil {
			return
		}
		for i := 0; i < int(body.NamedChildCount()); i++ {
			item := body.NamedChild(i)
			switch item.Type() {
			case "property_identifier", "string":
				d.Items = append(d.Items, unquote(f.text(item)))
			case "enum_assignment":
				d.Items = append(d.Items, unquote(f.text(item.ChildByFieldName("name"))))
			}
		}
	}
}

func (r *resolver) classMembers(f *parsedFile, d *model.Declaration, body *sitter.Node) {
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		n := body.NamedChild(i)
		switch n.Type() {
		case "public_field_definition", "field_definition":
			d.Properties = append(d.Properties, r.field(f, n))
		case "method_definition":
			name := f.text(n.ChildByFieldName("name"))
			if name == "constructor" {
				d.Properties = append(d.Properties, r.parameterProperties(f, n.ChildByFieldName("parameters"))...)
				continue
			}
			switch accessor(n) {
			case "get":
				m := r.method(f, n)
				m.TypeIDs = r.typeIDs(f, n.ChildByFieldName("return_type"))
				d.Properties = append(d.Properties, m)
			case "set":
			default:
				d.Methods = append(d.Methods, r.method(f, n))
			}
		case "abstract_method_signature":
			m := r.method(f, n)
			m.Modifiers |= model.Abstract
			d.Methods = append(d.Methods, m)
		}
	}
}

func (r *resolver) signatureMembers(f *parsedFile, d *model.Declaration, body *sitter.Node) {
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		n := body.NamedChild(i)
		switch n.Type() {
		case "property_signature":
			d.Properties = append(d.Properties, r.field(f, n))
		case "method_signature":
			d.Methods = append(d.Methods, r.method(f, n))
		}
	}
}

// field reads a class field or property signature.
func (r *resolver) field(f *parsedFile, n *sitter.Node) model.Member {
	name := n.ChildByFieldName("name")
	m := model.Member{
		Name:      f.text(name),
		Optional:  hasToken(n, "?"),
		Modifiers: modifiers(f, n),
	}
	if name != nil && name.Type() == "private_property_identifier" {
		m.Modifiers |= model.Private
	}

	if ann := n.ChildByFieldName("type"); ann != nil {
		m.Type = typeText(f, ann)
		m.TypeIDs = r.typeIDs(f, ann)
		return m
	}
	m.Type, m.TypeIDs = r.inferred(f, n.ChildByFieldName("value"))
	return m
}

// method reads a method definition or signature. Type is the declared
// return type.
func (r *resolver) method(f *parsedFile, n *sitter.Node) model.Member {
	return model.Member{
		Name:      f.text(n.ChildByFieldName("name")),
		Type:      typeText(f, n.ChildByFieldName("return_type")),
		Optional:  hasToken(n, "?"),
		Modifiers: modifiers(f, n),
	}
}

// parameterProperties returns constructor parameters declared with an
// accessibility modifier or readonly, which TypeScript turns into fields.
func (r *resolver) parameterProperties(f *parsedFile, params *sitter.Node) []model.Member {
	if params == nil {
		return nil
	}
	var out []model.Member
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p.Type() != "required_parameter" && p.Type() != "optional_parameter" {
			continue
		}
		mods := modifiers(f, p)
		if mods == 0 {
			continue
		}
		m := model.Member{
			Name:      f.text(p.ChildByFieldName("pattern")),
			Optional:  p.Type() == "optional_parameter",
			Modifiers: mods,
		}
		if ann := p.ChildByFieldName("type"); ann != nil {
			m.Type = typeText(f, ann)
			m.TypeIDs = r.typeIDs(f, ann)
		} else {
			m.Type, m.TypeIDs = r.inferred(f, p.ChildByFieldName("value"))
		}
		out = append(out, m)
	}
	return out
}

// inferred guesses a type from a literal or "new X()" initializer.
func (r *resolver) inferred(f *parsedFile, value *sitter.Node) (string, []string) {
	if value == nil {
		return "", nil
	}
	switch value.Type() {
	case "number":
		return "number", nil
	case "string", "template_string":
		return "string", nil
	case "true", "false":
		return "boolean", nil
	case "new_expression":
		ctor := value.ChildByFieldName("constructor")
		if ctor == nil || ctor.Type() != "identifier" {
			return "", nil
		}
		name := f.text(ctor)
		if id, ok := r.resolve(f, name); ok {
			return name, []string{id}
		}
		return name, nil
	}
	return "", nil
}

func modifiers(f *parsedFile, n *sitter.Node) model.Modifiers {
	var mods model.Modifiers
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "accessibility_modifier":
			if m, ok := model.ParseModifier(f.text(c)); ok {
				mods |= m
			}
		case "static":
			mods |= model.Static
		case "abstract":
			mods |= model.Abstract
		case "readonly":
			mods |= model.Readonly
		}
	}
	return mods
}

func hasToken(n *sitter.Node, token string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == token {
			return true
		}
		if c.Type() == "type_annotation" || c.Type() == "formal_parameters" {
			return false
		}
	}
	return false
}

func accessor(n *sitter.Node) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		switch c := n.Child(i); c.Type() {
		case "get", "set":
			return c.Type()
		case "property_identifier", "formal_parameters":
			return ""
		}
	}
	return ""
}

// typeText returns the annotated type without the leading colon, with
// whitespace runs collapsed.
func typeText(f *parsedFile, ann *sitter.Node) string {
	if ann == nil {
		return ""
	}
	t := ann
	if ann.Type() == "type_annotation" && ann.NamedChildCount() > 0 {
		t = ann.NamedChild(0)
	}
	return strings.Join(strings.Fields(f.text(t)), " ")
}

// =============================================================================
// Heritage
// =============================================================================

func (r *resolver) classHeritage(f *parsedFile, d *model.Declaration, n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		h := n.NamedChild(i)
		if h.Type() != "class_heritage" {
			continue
		}
		for j := 0; j < int(h.NamedChildCount()); j++ {
			clause := h.NamedChild(j)
			switch clause.Type() {
			case "extends_clause":
				for k := 0; k < int(clause.NamedChildCount()); k++ {
					if c := clause.NamedChild(k); c.Type() != "type_arguments" {
						r.heritage(f, d, c, model.Extends)
					}
				}
			case "implements_clause":
				for k := 0; k < int(clause.NamedChildCount()); k++ {
					r.heritage(f, d, clause.NamedChild(k), model.Implements)
				}
			}
		}
	}
}

// interfaceHeritage records "interface A extends B" as Implements, which is
// how the diagram draws interface inheritance.
func (r *resolver) interfaceHeritage(f *parsedFile, d *model.Declaration, n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "extends_type_clause" {
			continue
		}
		for k := 0; k < int(clause.NamedChildCount()); k++ {
			r.heritage(f, d, clause.NamedChild(k), model.Implements)
		}
	}
}

func (r *resolver) heritage(f *parsedFile, d *model.Declaration, n *sitter.Node, typ model.HeritageType) {
	base := n
	if n.Type() == "generic_type" {
		base = n.ChildByFieldName("name")
	}
	if base == nil {
		return
	}
	name := f.text(base)
	clause := model.HeritageClause{
		Clause:      strings.Join(strings.Fields(f.text(n)), " "),
		Owner:       d.Name,
		OwnerTypeID: d.ID,
		Type:        typ,
	}
	if id, ok := r.resolve(f, name); ok {
		clause.ClauseTypeID = id
		clause.Clause = r.decls[id].Name
	}
	d.Heritage = append(d.Heritage, clause)
}

// =============================================================================
// Type references
// =============================================================================

// typeIDs returns the ids of analyzed declarations that a type refers to,
// unwrapping arrays, unions, intersections and Array<T>.
func (r *resolver) typeIDs(f *parsedFile, n *sitter.Node) []string {
	var ids []string
	seen := make(map[string]bool)
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "type_identifier":
			if id, ok := r.resolve(f, f.text(n)); ok && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		case "generic_type":
			name := n.ChildByFieldName("name")
			switch f.text(name) {
			case "Array", "ReadonlyArray":
				walk(n.ChildByFieldName("type_arguments"))
			default:
				walk(name)
			}
		case "type_annotation", "array_type", "union_type", "intersection_type",
			"parenthesized_type", "readonly_type", "type_arguments":
			for i := 0; i < int(n.NamedChildCount()); i++ {
				walk(n.NamedChild(i))
			}
		}
	}
	walk(n)
	return ids
}
