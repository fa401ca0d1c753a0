package typewire

import (
	"fmt"

	"github.com/typewire/typewire/i18n"
)

// ResolveVariant picks exactly one candidate model type for a union element.
// It is a stateless pure function; the engine calls it once per element.
//
// Signal priority when a config carries several, each terminal on failure:
//  1. Resolve — the caller-supplied resolver must return a declared candidate.
//  2. Mapping — element[field] looked up in the explicit value->type table.
//  3. Field   — element[field] must equal exactly one candidate's own
//     declared discriminant tag; zero or multiple matches fail.
func ResolveVariant(candidates []*ModelType, cfg DiscriminatorConfig, element map[string]any) (*ModelType, error) {
	if cfg.Resolve != nil {
		mt := cfg.Resolve(element)
		if mt == nil {
			return nil, Issues{Issue{Path: "/", Code: CodeDiscriminatorUnknown, Message: i18n.T(CodeDiscriminatorUnknown, nil), Hint: "resolver selected no candidate"}}
		}
		if !containsModel(candidates, mt) {
			return nil, Issues{Issue{
				Path:    "/",
				Code:    CodeUnionAmbiguous,
				Message: fmt.Sprintf("resolver returned %q, which is not a declared candidate", mt.name),
			}}
		}
		return mt, nil
	}

	tag, err := discriminantValue(cfg.Field, element)
	if err != nil {
		return nil, err
	}

	if cfg.Mapping != nil {
		mt, ok := cfg.Mapping[tag]
		if !ok {
			return nil, unknownVariant(cfg.Field, tag)
		}
		return mt, nil
	}

	var found *ModelType
	for _, c := range candidates {
		if v, ok := c.tags[cfg.Field]; ok && v == tag {
			if found != nil {
				return nil, Issues{Issue{
					Path:    "/" + cfg.Field,
					Code:    CodeUnionAmbiguous,
					Message: fmt.Sprintf("discriminant %q matches both %q and %q", tag, found.name, c.name),
				}}
			}
			found = c
		}
	}
	if found == nil {
		return nil, unknownVariant(cfg.Field, tag)
	}
	return found, nil
}

func discriminantValue(field string, element map[string]any) (string, error) {
	raw, ok := element[field]
	if !ok || raw == nil {
		return "", Issues{Issue{
			Path:    "/" + field,
			Code:    CodeDiscriminatorMissing,
			Message: i18n.T(CodeDiscriminatorMissing, nil),
			Hint:    fmt.Sprintf("expected string field %q", field),
		}}
	}
	tag, ok := raw.(string)
	if !ok || tag == "" {
		return "", Issues{Issue{
			Path:    "/" + field,
			Code:    CodeDiscriminatorMissing,
			Message: i18n.T(CodeDiscriminatorMissing, nil),
			Hint:    "discriminator must be a non-empty string",
		}}
	}
	return tag, nil
}

func unknownVariant(field, tag string) error {
	return Issues{Issue{
		Path:    "/" + field,
		Code:    CodeDiscriminatorUnknown,
		Message: i18n.T(CodeDiscriminatorUnknown, nil),
		Hint:    fmt.Sprintf("no candidate declares %s=%q", field, tag),
	}}
}
