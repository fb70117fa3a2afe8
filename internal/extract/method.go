package extract

import "github.com/igetcool/icodetest/internal/javasrc"

// ExtractMethod captures the signature, body and request mapping of m.
// With several mapping annotations the last one decides the verb.
func ExtractMethod(m javasrc.Method) MethodMeta {
	mm := MethodMeta{
		Name:      m.Name,
		Params:    m.Params,
		Return:    m.Return,
		Body:      m.Body,
		Signature: m.Signature(),
	}
	for _, a := range m.Annotations {
		if !isMapping(a) {
			continue
		}
		mm.Verb = "get"
		if a.Is(AnnotationPostMapping) {
			mm.Verb = "post"
		}
		if v, ok := a.StringValue("value"); ok {
			mm.Path = v
		}
	}
	return mm
}

// Signatures returns the picker text of each method in meta.
func Signatures(meta *ClassMeta) []string {
	out := make([]string, len(meta.Methods))
	for i, m := range meta.Methods {
		out[i] = m.Signature
	}
	return out
}
