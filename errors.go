package typewire

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeParseError    = "parse_error"
	CodeConversion    = "conversion_error"
	CodeCycleDetected = "cycle_detected"
	// Discriminator resolution (one element of a polymorphic field)
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeUnionAmbiguous       = "union_ambiguous"
	// Static registration failures (detected at Build/Register, always fatal)
	CodeRegistrationDuplicate    = "registration_duplicate"
	CodeRegistrationUnknownKind  = "registration_unknown_kind"
	CodeRegistrationDiscriminant = "registration_discriminant"
	CodeRegistrationArrayDepth   = "registration_array_depth"
	CodeRegistrationInvalidField = "registration_invalid_field"
)

// Issue represents a single coercion or registration entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/createdAt).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected shapes, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"kind":"bigint", "got":"x"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of coercion errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. conversion_error at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IsRegistrationError reports whether err carries at least one static
// registration issue. Registration issues are fatal and surface before any
// instance is created.
func IsRegistrationError(err error) bool {
	return hasCodePrefix(err, "registration_")
}

// IsResolutionError reports whether err carries a discriminator resolution
// issue for some element of a polymorphic field.
func IsResolutionError(err error) bool {
	return hasCodePrefix(err, "discriminator_") || hasCode(err, CodeUnionAmbiguous)
}

// IsConversionError reports whether err carries a leaf transformer rejection.
func IsConversionError(err error) bool {
	return hasCode(err, CodeConversion) || hasCode(err, CodeInvalidType)
}

func hasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

func hasCodePrefix(err error, prefix string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if strings.HasPrefix(it.Code, prefix) {
			return true
		}
	}
	return false
}

// singleIssue builds an Issues value holding exactly one root-level issue.
func singleIssue(code, msg string) Issues {
	return Issues{Issue{Path: "/", Code: code, Message: msg}}
}

// issuesFromErr converts an error into Issues, wrapping non-Issues with
// CodeConversion so native conversion errors propagate unchanged as Cause.
func issuesFromErr(path string, err error) Issues {
	if err == nil {
		return nil
	}
	if i2, ok := AsIssues(err); ok {
		return i2
	}
	return Issues{Issue{Path: path, Code: CodeConversion, Message: err.Error(), Cause: err}}
}

// rebaseIssues re-parents child issue paths under base ("/field" style).
func rebaseIssues(base string, err error) Issues {
	child, ok := AsIssues(err)
	if !ok {
		return issuesFromErr(base, err)
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		out = append(out, Issue{Path: p, Code: it.Code, Message: it.Message, Hint: it.Hint, Cause: it.Cause, Params: it.Params})
	}
	return out
}
